package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	TaskRepo    *repository.TaskRepository
	SubjectRepo *repository.SubjectRepository
	Cache       AnalyticsCache
	Events      Notifier
	Now         func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, subjectRepo *repository.SubjectRepository, cache AnalyticsCache) *TaskService {
	return &TaskService{
		TaskRepo:    taskRepo,
		SubjectRepo: subjectRepo,
		Cache:       cache,
		Events:      NoopNotifier{},
		Now:         time.Now,
	}
}

// Create adds a manual task to one of the user's own subjects.
func (s *TaskService) Create(ctx context.Context, userID uint, input model.TaskInput) (*model.Task, error) {
	subject, err := s.SubjectRepo.FindByIDForUser(ctx, input.SubjectID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:    userID,
		SubjectID: subject.ID,
		Title:     strings.TrimSpace(input.Title),
		Duration:  input.Duration,
		Status:    model.TaskPending,
		Date:      input.Date,
	}
	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	task.Subject = subject
	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID uint, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, util.ErrInvalidStatus
	}
	return s.TaskRepo.FindByUser(ctx, userID, filter)
}

func (s *TaskService) Get(ctx context.Context, userID, id uint) (*model.Task, error) {
	task, err := s.TaskRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id uint, patch model.TaskPatch) (*model.Task, error) {
	task, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Duration != nil {
		task.Duration = *patch.Duration
	}
	if patch.Date != nil {
		task.Date = *patch.Date
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, util.ErrInvalidStatus
		}
		task.Status = *patch.Status
	}

	if err := s.TaskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.invalidate(ctx, userID)
	return task, nil
}

func (s *TaskService) Complete(ctx context.Context, userID, id uint) (*model.Task, error) {
	err := s.TaskRepo.UpdateStatus(ctx, id, userID, model.TaskCompleted)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	s.invalidate(ctx, userID)
	return s.Get(ctx, userID, id)
}

func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	err := s.TaskRepo.Delete(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// MarkOverdueMissed turns every pending task scheduled before today into a missed one.
func (s *TaskService) MarkOverdueMissed(ctx context.Context) (int64, error) {
	n, err := s.TaskRepo.MarkOverdueMissed(ctx, startOfDay(s.Now()))
	if err != nil {
		return 0, fmt.Errorf("mark overdue tasks: %w", err)
	}
	if n > 0 {
		monitoring.TasksMarkedMissed.Add(float64(n))
		if err := s.Cache.InvalidateAll(ctx); err != nil {
			logger.Log.Warn("Failed to flush analytics cache", zap.Error(err))
		}
		notify(s.Events, 0, Event{Type: EventTasksMissed, Data: map[string]int64{"count": n}})
	}
	return n, nil
}

func (s *TaskService) invalidate(ctx context.Context, userID uint) {
	invalidateAnalytics(ctx, s.Cache, userID)
}
