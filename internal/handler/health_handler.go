package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-roster/internal/response"
	"github.com/stemsi/student-roster/internal/service"
)

// HealthHandler reports liveness and whether the roster loaded cleanly.
type HealthHandler struct {
	rosterService *service.RosterService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(rosterService *service.RosterService) *HealthHandler {
	return &HealthHandler{rosterService: rosterService}
}

// Health godoc
// GET /health
// Always 200. A roster that fell back to empty at startup reports
// status "degraded" with the load error.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"students": h.rosterService.Len(),
	}
	if err := h.rosterService.LoadError(); err != nil {
		body["status"] = "degraded"
		body["load_error"] = err.Error()
	}
	response.Success(c, http.StatusOK, body)
}
