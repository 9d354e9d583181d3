package controller

import (
	"study_planner_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	Hub *service.EventHub
}

func NewEventController(hub *service.EventHub) *EventController {
	return &EventController{Hub: hub}
}

// Stream godoc
// @Summary Live study events over websocket
// @Description Pushes PLAN_GENERATED, PRIORITIES_UPDATED and TASKS_MISSED events. Browsers pass the token as ?token=.
// @Tags Events
// @Security ApiKeyAuth
// @Param token query string false "JWT when headers cannot be set"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/events/ws [get]
func (c *EventController) Stream(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	service.ServeEvents(c.Hub, ctx.Writer, ctx.Request, userID)
}
