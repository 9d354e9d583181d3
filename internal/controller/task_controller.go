package controller

import (
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// swagger:model CreateTaskRequest
type CreateTaskRequest struct {
	SubjectID uint   `json:"subjectId" binding:"required"`
	Title     string `json:"title" binding:"required,max=255"`
	Duration  int    `json:"duration" binding:"required,min=1"`
	Date      string `json:"date" binding:"required"`
}

// swagger:model UpdateTaskRequest
type UpdateTaskRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=255"`
	Duration *int    `json:"duration" binding:"omitempty,min=1"`
	Date     *string `json:"date"`
	Status   *string `json:"status"`
}

type ListTasksQuery struct {
	Status    string `form:"status"`
	SubjectID uint   `form:"subjectId"`
	From      string `form:"from"`
	To        string `form:"to"`
}

// Create godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateTaskRequest true "Task"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Subject not found"
// @Router /api/tasks [post]
func (c *TaskController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	date, ok := parseDate(ctx, req.Date)
	if !ok {
		return
	}

	task, err := c.TaskService.Create(ctx.Request.Context(), userID, model.TaskInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Duration:  req.Duration,
		Date:      date,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "pending, completed or missed"
// @Param subjectId query int false "Subject ID"
// @Param from query string false "Earliest date (inclusive)"
// @Param to query string false "Latest date (exclusive)"
// @Success 200 {object} util.Response{data=[]model.Task}
// @Router /api/tasks [get]
func (c *TaskController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var q ListTasksQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	filter := model.TaskFilter{SubjectID: q.SubjectID, Status: model.TaskStatus(q.Status)}
	if q.From != "" {
		from, ok := parseDate(ctx, q.From)
		if !ok {
			return
		}
		filter.From = &from
	}
	if q.To != "" {
		to, ok := parseDate(ctx, q.To)
		if !ok {
			return
		}
		filter.To = &to
	}

	tasks, err := c.TaskService.List(ctx.Request.Context(), userID, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// Update godoc
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Param body body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id} [put]
func (c *TaskController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	patch := model.TaskPatch{Title: req.Title, Duration: req.Duration}
	if req.Date != nil {
		date, ok := parseDate(ctx, *req.Date)
		if !ok {
			return
		}
		patch.Date = &date
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := c.TaskService.Update(ctx.Request.Context(), userID, id, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// Complete godoc
// @Summary Mark a task as completed
// @Tags Tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id}/complete [patch]
func (c *TaskController) Complete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	task, err := c.TaskService.Complete(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/tasks/{id} [delete]
func (c *TaskController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.TaskService.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Task deleted successfully"})
}
