package repository

import (
	"context"
	"study_planner_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

const taskBatchSize = 100

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(&tasks, taskBatchSize).Error
}

func (r *TaskRepository) FindByIDForUser(ctx context.Context, id, userID uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.WithContext(ctx).
		Preload("Subject").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	return &task, err
}

// FindByUser lists a user's tasks by date with their subject preloaded.
func (r *TaskRepository) FindByUser(ctx context.Context, userID uint, filter model.TaskFilter) ([]model.Task, error) {
	query := r.DB.WithContext(ctx).Preload("Subject").Where("user_id = ?", userID)

	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}

	var tasks []model.Task
	err := query.Order("date ASC").Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Omit("Subject").Save(task).Error
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id, userID uint, status model.TaskStatus) error {
	result := r.DB.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.DB.WithContext(ctx).Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUser wipes every task of the user ahead of a plan regeneration.
func (r *TaskRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.DB.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&model.Task{})
	return result.RowsAffected, result.Error
}

// MarkOverdueMissed flips pending tasks scheduled before the cutoff to missed.
func (r *TaskRepository) MarkOverdueMissed(ctx context.Context, before time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&model.Task{}).
		Where("status = ? AND date < ?", model.TaskPending, before).
		Update("status", model.TaskMissed)
	return result.RowsAffected, result.Error
}
