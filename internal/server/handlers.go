package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinsim/internal/casefile"
	"clinsim/internal/models"
	"clinsim/internal/rag"
)

// Handlers bundles the dependencies of the HTTP endpoints.
type Handlers struct {
	chat    *rag.ChatService
	catalog *casefile.Store
}

func NewHandlers(chat *rag.ChatService, catalog *casefile.Store) *Handlers {
	return &Handlers{chat: chat, catalog: catalog}
}

// Chat handles POST /api/chat: one grounded chat turn.
func (h *Handlers) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Messages) == 0 || req.CaseID == "" {
		respondError(c, http.StatusBadRequest, "Messages and caseId are required", nil)
		return
	}
	reply, err := h.chat.Chat(c.Request.Context(), req)
	if err != nil {
		respondFailure(c, err, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

// PreloadCase handles POST /api/preload-case-data: eager case indexing.
func (h *Handlers) PreloadCase(c *gin.Context) {
	var req models.PreloadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CaseID == "" {
		respondError(c, http.StatusBadRequest, "caseId is required for preloading.", nil)
		return
	}
	already, err := h.chat.Preload(c.Request.Context(), req.CaseID)
	if err != nil {
		respondFailure(c, err, fmt.Sprintf("Failed to preload case data for %s", req.CaseID))
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Case %s data already loaded.", req.CaseID)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Case %s data preloaded and cached.", req.CaseID)})
}

// ListCases handles GET /api/patient-cases: the case catalog.
func (h *Handlers) ListCases(c *gin.Context) {
	cases, err := h.catalog.ListCases()
	if err != nil {
		respondFailure(c, err, "Failed to load patient cases data")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// CaseDetails handles GET /api/case-details/:caseId.
func (h *Handlers) CaseDetails(c *gin.Context) {
	caseID := c.Param("caseId")
	details, err := h.catalog.GetCase(caseID)
	if err != nil {
		respondFailure(c, err, fmt.Sprintf("Case with ID %s not found.", caseID))
		return
	}
	c.JSON(http.StatusOK, details)
}

// CaseFile handles GET /api/case-file/:caseId/:type, returning the raw
// case record JSON.
func (h *Handlers) CaseFile(c *gin.Context) {
	caseID := c.Param("caseId")
	variant := c.Param("type")
	if variant != models.VariantPatient && variant != models.VariantPhysician {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Unknown case file type %s", variant), nil)
		return
	}
	data, err := h.catalog.CaseFile(caseID, variant)
	if err != nil {
		respondFailure(c, err, fmt.Sprintf("Failed to load case file data for %s_%s", caseID, variant))
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// HealthCheck handles GET /healthcheck.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
