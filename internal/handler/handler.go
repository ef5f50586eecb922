package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iscout/scorekeeper/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, store Pinger, settingsSvc service.SettingsService, matchSvc service.MatchService, historySvc service.HistoryService) {
	h := NewHealthHandler(store)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		NewSettingsHandler(settingsSvc).Register(api)
		NewMatchHandler(matchSvc).Register(api)
		NewHistoryHandler(historySvc).Register(api)
	}
}
