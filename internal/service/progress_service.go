package service

import (
	"context"
	"study_planner_backend/internal/planner"
	"study_planner_backend/internal/repository"
	"time"
)

// ProgressService serves the read-only progress views.
type ProgressService struct {
	SubjectRepo *repository.SubjectRepository
	TaskRepo    *repository.TaskRepository
	Now         func() time.Time
}

func NewProgressService(subjectRepo *repository.SubjectRepository, taskRepo *repository.TaskRepository) *ProgressService {
	return &ProgressService{
		SubjectRepo: subjectRepo,
		TaskRepo:    taskRepo,
		Now:         time.Now,
	}
}

func (s *ProgressService) Progress(ctx context.Context, userID uint) (*planner.Progress, error) {
	subjects, tasks, err := loadStudyData(ctx, s.SubjectRepo, s.TaskRepo, userID)
	if err != nil {
		return nil, err
	}
	progress := planner.GetProgress(subjects, tasks)
	return &progress, nil
}

// Dataset exports per-subject study features for offline analysis.
func (s *ProgressService) Dataset(ctx context.Context, userID uint) (*planner.Dataset, error) {
	subjects, tasks, err := loadStudyData(ctx, s.SubjectRepo, s.TaskRepo, userID)
	if err != nil {
		return nil, err
	}
	dataset := planner.BuildDataset(userID, subjects, tasks, s.Now())
	return &dataset, nil
}
