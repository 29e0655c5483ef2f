package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinsim/internal/models"
)

// ErrorResponse is the failure envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, msg string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	c.JSON(status, ErrorResponse{Error: msg, Details: details})
}

// respondFailure maps the core error taxonomy onto status codes: client
// mistakes to 4xx, everything else to a generic 500 with diagnostic detail.
func respondFailure(c *gin.Context, err error, msg string) {
	var validation models.ValidationError
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, msg, err)
	default:
		respondError(c, http.StatusInternalServerError, msg, err)
	}
}
