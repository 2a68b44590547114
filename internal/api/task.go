package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskhub/internal/api/respond"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

type taskIndexRequest struct {
	Name        string `form:"name"`
	Description string `form:"description" binding:"omitempty,max=255"`
	CategoryID  *uint  `form:"category_id"`
	StatusID    *uint  `form:"status_id"`
	PriorityID  *uint  `form:"priority_id"`
	DueDateFrom string `form:"due_date_from"`
	DueDateTo   string `form:"due_date_to"`
	Page        *int   `form:"page" binding:"omitempty,min=1"`
	PerPage     *int   `form:"per_page" binding:"omitempty,min=1,max=100"`
}

type taskCreateRequest struct {
	CategoryID  uint   `json:"category_id" binding:"required"`
	StatusID    *uint  `json:"status_id"`
	PriorityID  *uint  `json:"priority_id"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=255"`
	Text        string `json:"text"`
	DueDate     string `json:"due_date"`
}

type taskUpdateRequest struct {
	CategoryID  *uint   `json:"category_id"`
	StatusID    *uint   `json:"status_id"`
	PriorityID  *uint   `json:"priority_id"`
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Text        *string `json:"text"`
	DueDate     *string `json:"due_date"`
}

type taskListData struct {
	Tasks      []taskResource `json:"tasks"`
	TotalTasks int64          `json:"total_tasks"`
	TotalPages int64          `json:"total_pages"`
}

// handleListTasks lists the current user's tasks with optional filters and
// pagination. The default page size comes from configuration.
func (s *Server) handleListTasks(c *gin.Context) {
	var req taskIndexRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	filters := repository.TaskFilters{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		StatusID:    req.StatusID,
		PriorityID:  req.PriorityID,
	}

	if req.DueDateFrom != "" {
		from, err := time.Parse(dueDateLayout, req.DueDateFrom)
		if err != nil {
			respond.FieldErrors(c, map[string]string{"due_date_from": "must be a date in YYYY-MM-DD format"})
			return
		}
		filters.DueDateFrom = &from
	}
	if req.DueDateTo != "" {
		to, err := time.Parse(dueDateLayout, req.DueDateTo)
		if err != nil {
			respond.FieldErrors(c, map[string]string{"due_date_to": "must be a date in YYYY-MM-DD format"})
			return
		}
		filters.DueDateTo = &to
	}

	page := 1
	if req.Page != nil {
		page = *req.Page
	}
	perPage := s.cfg.App.TasksPerPage
	if req.PerPage != nil {
		perPage = *req.PerPage
	}

	tasks, total, err := s.tasks.List(c.Request.Context(), filters, page, perPage)
	if err != nil {
		s.logger.Error("list tasks failed", slog.String("error", err.Error()))
		serverError(c, "list tasks failed")
		return
	}

	resources := make([]taskResource, 0, len(tasks))
	for _, task := range tasks {
		resources = append(resources, newTaskResource(task))
	}

	respond.Success(c, http.StatusOK, taskListData{
		Tasks:      resources,
		TotalTasks: total,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}, "")
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	if !s.checkTaskReferences(c, &req.CategoryID, req.StatusID, req.PriorityID) {
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(dueDateLayout, req.DueDate)
		if err != nil {
			respond.FieldErrors(c, map[string]string{"due_date": "must be a date in YYYY-MM-DD format"})
			return
		}
		dueDate = &parsed
	}

	task := model.Task{
		CategoryID:  req.CategoryID,
		StatusID:    req.StatusID,
		PriorityID:  req.PriorityID,
		Name:        req.Name,
		Description: req.Description,
		Text:        req.Text,
		DueDate:     dueDate,
	}
	if err := s.tasks.Create(c.Request.Context(), &task); err != nil {
		s.logger.Error("create task failed", slog.String("error", err.Error()))
		serverError(c, "create task failed")
		return
	}

	respond.Success(c, http.StatusCreated, newTaskResource(task), "Task created successfully.")
}

// checkTaskReferences verifies that every referenced row exists, answering
// a 422 field error otherwise. Mirrors the referential validation rules on
// create and update.
func (s *Server) checkTaskReferences(c *gin.Context, categoryID, statusID, priorityID *uint) bool {
	fields := map[string]string{}

	if categoryID != nil {
		if _, err := s.categories.GetByID(c.Request.Context(), *categoryID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				serverError(c, "check category failed")
				return false
			}
			fields["category_id"] = "is invalid"
		}
	}
	if statusID != nil {
		if _, err := s.statuses.GetByID(c.Request.Context(), *statusID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				serverError(c, "check status failed")
				return false
			}
			fields["status_id"] = "is invalid"
		}
	}
	if priorityID != nil {
		if _, err := s.priorities.GetByID(c.Request.Context(), *priorityID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				serverError(c, "check priority failed")
				return false
			}
			fields["priority_id"] = "is invalid"
		}
	}

	if len(fields) > 0 {
		respond.FieldErrors(c, fields)
		return false
	}
	return true
}

// getOwnTask resolves existence first (404), then ownership through the
// task's category (403). Returns nil when a response has been written.
func (s *Server) getOwnTask(c *gin.Context) *model.Task {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task not found.")
		return nil
	}

	task, err := s.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task not found.")
			return nil
		}
		s.logger.Error("get task failed", slog.String("error", err.Error()))
		serverError(c, "get task failed")
		return nil
	}

	if task.Category.UserID != currentUserID(c) {
		forbidden(c)
		return nil
	}
	return task
}

func (s *Server) handleShowTask(c *gin.Context) {
	task := s.getOwnTask(c)
	if task == nil {
		return
	}
	respond.Success(c, http.StatusOK, newTaskResource(*task), "Task retrieved successfully.")
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	task := s.getOwnTask(c)
	if task == nil {
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	if !s.checkTaskReferences(c, req.CategoryID, req.StatusID, req.PriorityID) {
		return
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.StatusID != nil {
		updates["status_id"] = *req.StatusID
	}
	if req.PriorityID != nil {
		updates["priority_id"] = *req.PriorityID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			respond.FieldErrors(c, map[string]string{"due_date": "must be a date in YYYY-MM-DD format"})
			return
		}
		updates["due_date"] = parsed
	}

	updated, err := s.tasks.Update(c.Request.Context(), task.ID, updates)
	if err != nil {
		s.logger.Error("update task failed", slog.String("error", err.Error()))
		serverError(c, "update task failed")
		return
	}

	respond.Success(c, http.StatusCreated, newTaskResource(*updated), "Task updated successfully.")
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	task := s.getOwnTask(c)
	if task == nil {
		return
	}

	affected, err := s.tasks.Delete(c.Request.Context(), task.ID)
	if err != nil {
		s.logger.Error("delete task failed", slog.String("error", err.Error()))
		serverError(c, "delete task failed")
		return
	}
	if affected == 0 {
		notFound(c, "Task not found.")
		return
	}

	respond.NoContent(c)
}
