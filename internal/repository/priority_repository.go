package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// TaskPriorityRepository wraps storage access for the global priority table.
type TaskPriorityRepository interface {
	List(ctx context.Context) ([]model.TaskPriority, error)
	GetByID(ctx context.Context, id uint) (*model.TaskPriority, error)
	Create(ctx context.Context, priority *model.TaskPriority) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskPriority, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type taskPriorityRepository struct {
	db *gorm.DB
}

func NewTaskPriorityRepository(db *gorm.DB) TaskPriorityRepository {
	return &taskPriorityRepository{db: db}
}

func (r *taskPriorityRepository) List(ctx context.Context) ([]model.TaskPriority, error) {
	var priorities []model.TaskPriority
	if err := r.db.WithContext(ctx).Order("id").Find(&priorities).Error; err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return priorities, nil
}

func (r *taskPriorityRepository) GetByID(ctx context.Context, id uint) (*model.TaskPriority, error) {
	var priority model.TaskPriority
	if err := r.db.WithContext(ctx).First(&priority, id).Error; err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *taskPriorityRepository) Create(ctx context.Context, priority *model.TaskPriority) error {
	if err := r.db.WithContext(ctx).Create(priority).Error; err != nil {
		return fmt.Errorf("create priority: %w", err)
	}
	return nil
}

func (r *taskPriorityRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskPriority, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.TaskPriority{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update priority: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *taskPriorityRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.TaskPriority{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete priority: %w", res.Error)
	}
	return res.RowsAffected, nil
}
