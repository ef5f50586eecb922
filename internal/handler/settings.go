package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/service"
	"github.com/iscout/scorekeeper/pkg/response"
)

type SettingsHandler struct {
	svc service.SettingsService
}

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/settings")
	{
		g.PUT("", h.save)
		g.GET("", h.get)
	}
}

func (h *SettingsHandler) save(c *gin.Context) {
	var cfg model.MatchConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	saved, err := h.svc.SaveConfiguration(c.Request.Context(), cfg)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, saved)
}

func (h *SettingsHandler) get(c *gin.Context) {
	cfg, err := h.svc.GetConfiguration(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, cfg)
}
