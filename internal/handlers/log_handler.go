package handlers

import (
	"net/http"

	"kasir-amanah/internal/services"

	"github.com/gin-gonic/gin"
)

// LogHandler exposes the audit trail to the operational-status view.
type LogHandler struct {
	logs *services.LogService
}

// NewLogHandler wires the handler to its service.
func NewLogHandler(logs *services.LogService) *LogHandler {
	return &LogHandler{logs: logs}
}

// GetLogs lists every audit entry, newest first.
func (h *LogHandler) GetLogs(c *gin.Context) {
	entries, err := h.logs.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
