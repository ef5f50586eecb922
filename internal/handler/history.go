package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iscout/scorekeeper/internal/service"
	"github.com/iscout/scorekeeper/pkg/response"
)

type HistoryHandler struct {
	svc service.HistoryService
}

func NewHistoryHandler(svc service.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

func (h *HistoryHandler) Register(r *gin.RouterGroup) {
	r.GET("/history", h.history)
	r.GET("/stats", h.stats)
}

func (h *HistoryHandler) history(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, records)
}

func (h *HistoryHandler) stats(c *gin.Context) {
	result, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, result)
}
