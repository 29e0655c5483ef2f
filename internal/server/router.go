package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the middleware stack and the API routes. The UI layer
// runs in a separate process, so CORS is open.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Requested-With", requestIDHeader},
	}))

	router.GET("/healthcheck", h.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/chat", h.Chat)
		api.POST("/preload-case-data", h.PreloadCase)
		api.GET("/patient-cases", h.ListCases)
		api.GET("/case-details/:caseId", h.CaseDetails)
		api.GET("/case-file/:caseId/:type", h.CaseFile)
	}
	return router
}
