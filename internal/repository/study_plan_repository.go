package repository

import (
	"context"
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type StudyPlanRepository struct {
	DB *gorm.DB
}

func NewStudyPlanRepository(db *gorm.DB) *StudyPlanRepository {
	return &StudyPlanRepository{DB: db}
}

func (r *StudyPlanRepository) Create(ctx context.Context, plan *model.StudyPlan) error {
	return r.DB.WithContext(ctx).Create(plan).Error
}

func (r *StudyPlanRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.StudyPlan{})
	return result.RowsAffected, result.Error
}

// FindRange returns plans dated in [from, to), earliest first.
func (r *StudyPlanRepository) FindRange(ctx context.Context, userID uint, from, to time.Time) ([]model.StudyPlan, error) {
	var plans []model.StudyPlan
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&plans).Error
	return plans, err
}
