package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// TaskStatusRepository wraps storage access for the global status table.
type TaskStatusRepository interface {
	List(ctx context.Context) ([]model.TaskStatus, error)
	GetByID(ctx context.Context, id uint) (*model.TaskStatus, error)
	Create(ctx context.Context, status *model.TaskStatus) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskStatus, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type taskStatusRepository struct {
	db *gorm.DB
}

func NewTaskStatusRepository(db *gorm.DB) TaskStatusRepository {
	return &taskStatusRepository{db: db}
}

func (r *taskStatusRepository) List(ctx context.Context) ([]model.TaskStatus, error) {
	var statuses []model.TaskStatus
	if err := r.db.WithContext(ctx).Order("id").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	return statuses, nil
}

func (r *taskStatusRepository) GetByID(ctx context.Context, id uint) (*model.TaskStatus, error) {
	var status model.TaskStatus
	if err := r.db.WithContext(ctx).First(&status, id).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *taskStatusRepository) Create(ctx context.Context, status *model.TaskStatus) error {
	if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
		return fmt.Errorf("create status: %w", err)
	}
	return nil
}

func (r *taskStatusRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskStatus, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.TaskStatus{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *taskStatusRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.TaskStatus{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete status: %w", res.Error)
	}
	return res.RowsAffected, nil
}
