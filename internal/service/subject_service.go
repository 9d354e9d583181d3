package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/planner"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type SubjectService struct {
	SubjectRepo *repository.SubjectRepository
	Storage     *StorageService
	Cache       AnalyticsCache
	Now         func() time.Time
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, storage *StorageService, cache AnalyticsCache) *SubjectService {
	return &SubjectService{
		SubjectRepo: subjectRepo,
		Storage:     storage,
		Cache:       cache,
		Now:         time.Now,
	}
}

// Create stores a subject with its priority seeded from difficulty and exam date.
func (s *SubjectService) Create(ctx context.Context, userID uint, input model.SubjectInput) (*model.Subject, error) {
	difficulty, err := resolveDifficulty(input.Difficulty)
	if err != nil {
		return nil, err
	}

	subject := &model.Subject{
		UserID:     userID,
		Name:       strings.TrimSpace(input.Name),
		Difficulty: difficulty,
		ExamDate:   input.ExamDate,
		Materials:  input.Materials,
	}
	if subject.Materials == nil {
		subject.Materials = []string{}
	}
	subject.Priority = planner.CalculatePriority(*subject, s.Now())

	if err := s.SubjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	s.invalidate(ctx, userID)
	return subject, nil
}

func (s *SubjectService) List(ctx context.Context, userID uint) ([]model.Subject, error) {
	return s.SubjectRepo.FindByUser(ctx, userID)
}

func (s *SubjectService) Get(ctx context.Context, userID, id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByIDForUser(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// Update applies a partial update. Changing difficulty or exam date re-seeds the priority.
func (s *SubjectService) Update(ctx context.Context, userID, id uint, patch model.SubjectPatch) (*model.Subject, error) {
	subject, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	reprioritize := false
	if patch.Name != nil {
		subject.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Difficulty != nil {
		difficulty, err := resolveDifficulty(*patch.Difficulty)
		if err != nil {
			return nil, err
		}
		reprioritize = reprioritize || difficulty != subject.Difficulty
		subject.Difficulty = difficulty
	}
	if patch.ExamDate != nil {
		reprioritize = reprioritize || !patch.ExamDate.Equal(subject.ExamDate)
		subject.ExamDate = *patch.ExamDate
	}
	if patch.Materials != nil {
		subject.Materials = patch.Materials
	}
	if reprioritize {
		subject.Priority = planner.CalculatePriority(*subject, s.Now())
	}

	if err := s.SubjectRepo.Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	s.invalidate(ctx, userID)
	return subject, nil
}

// Delete removes the subject and every task scheduled for it.
func (s *SubjectService) Delete(ctx context.Context, userID, id uint) error {
	err := s.SubjectRepo.Delete(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSubjectNotFound
	}
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// AddMaterial uploads a file through the storage provider and appends its URL to the subject.
func (s *SubjectService) AddMaterial(ctx context.Context, userID, id uint, filename string, reader io.Reader, size int64, contentType string) (*model.Subject, error) {
	subject, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.Storage.Upload(ctx, MaterialKey(userID, id, filename), reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload material: %w", err)
	}

	subject.Materials = append(subject.Materials, url)
	if err := s.SubjectRepo.Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}
	return subject, nil
}

func (s *SubjectService) invalidate(ctx context.Context, userID uint) {
	invalidateAnalytics(ctx, s.Cache, userID)
}

func resolveDifficulty(d model.Difficulty) (model.Difficulty, error) {
	if d == "" {
		return model.DifficultyMedium, nil
	}
	d = model.Difficulty(strings.ToLower(string(d)))
	if !d.Valid() {
		return "", util.ErrInvalidDifficulty
	}
	return d, nil
}
