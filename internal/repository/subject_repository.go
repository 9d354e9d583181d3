package repository

import (
	"context"
	"study_planner_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Create(subject).Error
}

// FindByUser lists a user's subjects, nearest exam first.
func (r *SubjectRepository) FindByUser(ctx context.Context, userID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("exam_date ASC").
		Order("id ASC").
		Find(&subjects).Error
	return subjects, err
}

// FindByIDForUser returns gorm.ErrRecordNotFound when the subject belongs to someone else.
func (r *SubjectRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Save(subject).Error
}

func (r *SubjectRepository) UpdatePriority(ctx context.Context, id uint, priority float64) error {
	return r.DB.WithContext(ctx).Model(&model.Subject{}).
		Where("id = ?", id).
		Update("priority", priority).
		Error
}

// Delete removes the subject together with its tasks.
func (r *SubjectRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Subject{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Unscoped().Where("subject_id = ? AND user_id = ?", id, userID).Delete(&model.Task{}).Error
	})
}
