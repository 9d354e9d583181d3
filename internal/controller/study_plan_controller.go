package controller

import (
	"errors"
	"io"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudyPlanController struct {
	StudyPlanService *service.StudyPlanService
}

func NewStudyPlanController(studyPlanService *service.StudyPlanService) *StudyPlanController {
	return &StudyPlanController{StudyPlanService: studyPlanService}
}

// swagger:model GenerateStudyPlanRequest
type GenerateStudyPlanRequest struct {
	DailyMinutes int `json:"dailyMinutes" binding:"omitempty,min=30,max=1440"`
}

// GetPlans godoc
// @Summary Study plans for the coming week
// @Tags StudyPlan
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.StudyPlan}
// @Router /api/study-plan [get]
func (c *StudyPlanController) GetPlans(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	plans, err := c.StudyPlanService.GetPlans(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

// Generate godoc
// @Summary Regenerate the seven-day study plan and its tasks
// @Description Replaces all existing plans and tasks of the user.
// @Tags StudyPlan
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body GenerateStudyPlanRequest false "Daily budget in minutes"
// @Success 201 {object} util.Response{data=service.GenerateResult}
// @Failure 400 {object} util.Response "No subjects yet"
// @Router /api/study-plan/generate [post]
func (c *StudyPlanController) Generate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req GenerateStudyPlanRequest
	// the body is optional; an empty one keeps the configured budget
	if ctx.Request.Body != nil {
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	result, err := c.StudyPlanService.Generate(ctx.Request.Context(), userID, req.DailyMinutes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// UpdatePriorities godoc
// @Summary Adjust subject priorities from task performance
// @Tags StudyPlan
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PriorityUpdateReport}
// @Router /api/study-plan/update-priorities [post]
func (c *StudyPlanController) UpdatePriorities(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	report, err := c.StudyPlanService.UpdatePriorities(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Recommendations godoc
// @Summary Study recommendations
// @Tags StudyPlan
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/study-plan/recommendations [get]
func (c *StudyPlanController) Recommendations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	recs, err := c.StudyPlanService.Recommendations(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"count": len(recs),
		"items": recs,
	})
}

// Analytics godoc
// @Summary Aggregate task statistics
// @Tags StudyPlan
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=planner.Analytics}
// @Router /api/study-plan/analytics [get]
func (c *StudyPlanController) Analytics(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	analytics, err := c.StudyPlanService.Analytics(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
