package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iscout/scorekeeper/internal/service"
	"github.com/iscout/scorekeeper/pkg/response"
)

// MatchHandler exposes the live session: lifecycle, clock, extra time,
// participants, scoring and winner declaration. Mutating endpoints reply with
// the fresh snapshot so the UI never needs a follow-up read.
type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/session")
	{
		g.POST("", h.create)
		g.GET("", h.snapshot)
		g.DELETE("", h.close)

		g.POST("/clock/start", h.clockOp(service.MatchService.StartClock))
		g.POST("/clock/pause", h.clockOp(service.MatchService.PauseClock))
		g.POST("/clock/end", h.clockOp(service.MatchService.EndTimedPlay))
		g.POST("/reset", h.clockOp(service.MatchService.ResetSession))
		g.POST("/extra-time/grant", h.clockOp(service.MatchService.GrantExtraTime))
		g.POST("/extra-time/decline", h.clockOp(service.MatchService.DeclineExtraTime))

		g.POST("/participants", h.selectParticipant)
		g.POST("/selection", h.selectPlayer)
		g.POST("/actions", h.applyAction)
		g.POST("/teams/:slot/increment", h.teamScore(service.MatchService.IncrementTeamScore))
		g.POST("/teams/:slot/decrement", h.teamScore(service.MatchService.DecrementTeamScore))

		g.POST("/winner", h.declareWinner)
	}
}

func (h *MatchHandler) create(c *gin.Context) {
	snap, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, snap)
}

func (h *MatchHandler) snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}

func (h *MatchHandler) close(c *gin.Context) {
	if err := h.svc.CloseSession(); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// clockOp wraps the argument-less transition endpoints: run the operation,
// reply with the resulting snapshot.
func (h *MatchHandler) clockOp(op func(service.MatchService) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := op(h.svc); err != nil {
			response.WriteError(c, err)
			return
		}
		h.writeSnapshot(c)
	}
}

type selectParticipantRequest struct {
	Slot      int `json:"slot"`
	TeamIndex int `json:"team_index"`
}

func (h *MatchHandler) selectParticipant(c *gin.Context) {
	var req selectParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.SelectParticipant(req.Slot, req.TeamIndex); err != nil {
		response.WriteError(c, err)
		return
	}
	h.writeSnapshot(c)
}

type selectPlayerRequest struct {
	Slot        int `json:"slot"`
	PlayerIndex int `json:"player_index"`
}

func (h *MatchHandler) selectPlayer(c *gin.Context) {
	var req selectPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.SelectPlayer(req.Slot, req.PlayerIndex); err != nil {
		response.WriteError(c, err)
		return
	}
	h.writeSnapshot(c)
}

type applyActionRequest struct {
	Action string `json:"action"`
}

func (h *MatchHandler) applyAction(c *gin.Context) {
	var req applyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.ApplyScoringAction(req.Action); err != nil {
		response.WriteError(c, err)
		return
	}
	h.writeSnapshot(c)
}

func (h *MatchHandler) teamScore(op func(service.MatchService, int) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		slot, err := strconv.Atoi(c.Param("slot"))
		if err != nil {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "slot", Message: "must be 0 or 1"}}))
			return
		}
		if err := op(h.svc, slot); err != nil {
			response.WriteError(c, err)
			return
		}
		h.writeSnapshot(c)
	}
}

type declareWinnerRequest struct {
	Slot int `json:"slot"`
}

func (h *MatchHandler) declareWinner(c *gin.Context) {
	var req declareWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	rec, err := h.svc.DeclareWinner(c.Request.Context(), req.Slot)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, rec)
}

func (h *MatchHandler) writeSnapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}
