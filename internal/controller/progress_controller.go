package controller

import (
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Progress godoc
// @Summary Completion progress per subject
// @Tags Progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=planner.Progress}
// @Router /api/progress [get]
func (c *ProgressController) Progress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	progress, err := c.ProgressService.Progress(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Dataset godoc
// @Summary Export per-subject study features
// @Tags Progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=planner.Dataset}
// @Router /api/ai-dataset [get]
func (c *ProgressController) Dataset(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	dataset, err := c.ProgressService.Dataset(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dataset)
}
