package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskhub/internal/model"
)

// TaskFilters narrows task listings. UserID is mandatory: only tasks whose
// category belongs to that user are visible. The remaining fields are
// optional; nil/empty means "no filter".
type TaskFilters struct {
	UserID      uint
	Name        string // substring match
	Description string // substring match
	CategoryID  *uint
	StatusID    *uint
	PriorityID  *uint
	DueDateFrom *time.Time // inclusive
	DueDateTo   *time.Time // inclusive
}

// TaskRepository wraps storage access for tasks.
type TaskRepository interface {
	List(ctx context.Context, filters TaskFilters, page, perPage int) ([]model.Task, int64, error)
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// List returns one page of matching tasks plus the unpaged total.
func (r *taskRepository) List(ctx context.Context, filters TaskFilters, page, perPage int) ([]model.Task, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int64
	if err := r.filtered(ctx, filters).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []model.Task
	if err := r.filtered(ctx, filters).
		Preload("Category").
		Order("tasks.id").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, total, nil
}

// filtered builds a fresh query with the ownership join and all optional
// filters applied.
func (r *taskRepository) filtered(ctx context.Context, f TaskFilters) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Joins("JOIN task_categories ON task_categories.id = tasks.category_id").
		Where("task_categories.user_id = ?", f.UserID)

	if f.Name != "" {
		query = query.Where("tasks.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Description != "" {
		query = query.Where("tasks.description LIKE ?", "%"+f.Description+"%")
	}
	if f.CategoryID != nil {
		query = query.Where("tasks.category_id = ?", *f.CategoryID)
	}
	if f.StatusID != nil {
		query = query.Where("tasks.status_id = ?", *f.StatusID)
	}
	if f.PriorityID != nil {
		query = query.Where("tasks.priority_id = ?", *f.PriorityID)
	}
	if f.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		query = query.Where("tasks.due_date <= ?", *f.DueDateTo)
	}

	return query
}

// GetByID loads a task with its category so callers can resolve ownership.
func (r *taskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (*model.Task, error) {
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&model.Task{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update task: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *taskRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected, nil
}
