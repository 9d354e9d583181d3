package controller

import (
	"fmt"
	"path/filepath"
	"strings"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// swagger:model CreateSubjectRequest
type CreateSubjectRequest struct {
	Name       string   `json:"name" binding:"required,max=255"`
	Difficulty string   `json:"difficulty"`
	ExamDate   string   `json:"examDate" binding:"required"`
	Materials  []string `json:"materials"`
}

// swagger:model UpdateSubjectRequest
type UpdateSubjectRequest struct {
	Name       *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Difficulty *string  `json:"difficulty"`
	ExamDate   *string  `json:"examDate"`
	Materials  []string `json:"materials"`
}

// Create godoc
// @Summary Create a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateSubjectRequest true "Subject"
// @Success 201 {object} util.Response{data=model.Subject}
// @Failure 400 {object} util.Response
// @Router /api/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	examDate, ok := parseDate(ctx, req.ExamDate)
	if !ok {
		return
	}

	subject, err := c.SubjectService.Create(ctx.Request.Context(), userID, model.SubjectInput{
		Name:       req.Name,
		Difficulty: model.Difficulty(req.Difficulty),
		ExamDate:   examDate,
		Materials:  req.Materials,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// List godoc
// @Summary List subjects, nearest exam first
// @Tags Subjects
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	subjects, err := c.SubjectService.List(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// Get godoc
// @Summary Get a subject
// @Tags Subjects
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} util.Response{data=model.Subject}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	subject, err := c.SubjectService.Get(ctx.Request.Context(), userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// Update godoc
// @Summary Update a subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Param body body UpdateSubjectRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Subject}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	patch := model.SubjectPatch{Name: req.Name, Materials: req.Materials}
	if req.Difficulty != nil {
		d := model.Difficulty(*req.Difficulty)
		patch.Difficulty = &d
	}
	if req.ExamDate != nil {
		examDate, ok := parseDate(ctx, *req.ExamDate)
		if !ok {
			return
		}
		patch.ExamDate = &examDate
	}

	subject, err := c.SubjectService.Update(ctx.Request.Context(), userID, id, patch)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// Delete godoc
// @Summary Delete a subject and its tasks
// @Tags Subjects
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.SubjectService.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Subject deleted successfully"})
}

// UploadMaterial godoc
// @Summary Attach a study material file to a subject
// @Tags Subjects
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Subject ID"
// @Param file formData file true "Material"
// @Success 200 {object} util.Response{data=model.Subject}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/subjects/{id}/materials [post]
func (c *SubjectController) UploadMaterial(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > util.MaxMaterialSize {
		util.BadRequest(ctx, fmt.Sprintf("file exceeds %d MB", util.MaxMaterialSize>>20))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedMaterial(ext) {
		util.BadRequest(ctx, "unsupported file type "+ext)
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	subject, err := c.SubjectService.AddMaterial(ctx.Request.Context(), userID, id, file.Filename, src, file.Size, contentType)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

func allowedMaterial(ext string) bool {
	for _, allowed := range util.AllowedMaterialExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
