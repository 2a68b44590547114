package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// TaskCategoryRepository wraps storage access for task categories.
type TaskCategoryRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.TaskCategory, error)
	GetByID(ctx context.Context, id uint) (*model.TaskCategory, error)
	Create(ctx context.Context, category *model.TaskCategory) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskCategory, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type taskCategoryRepository struct {
	db *gorm.DB
}

func NewTaskCategoryRepository(db *gorm.DB) TaskCategoryRepository {
	return &taskCategoryRepository{db: db}
}

func (r *taskCategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.TaskCategory, error) {
	var categories []model.TaskCategory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *taskCategoryRepository) GetByID(ctx context.Context, id uint) (*model.TaskCategory, error) {
	var category model.TaskCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *taskCategoryRepository) Create(ctx context.Context, category *model.TaskCategory) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *taskCategoryRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.TaskCategory, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.TaskCategory{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *taskCategoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.TaskCategory{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected, nil
}
