package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskhub/internal/api/respond"
	"taskhub/internal/model"
)

type categoryCreateRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

// handleListCategories returns the current user's categories, id ascending.
func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.categories.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error("list categories failed", slog.String("error", err.Error()))
		serverError(c, "list categories failed")
		return
	}

	resources := make([]categoryResource, 0, len(categories))
	for _, category := range categories {
		resources = append(resources, newCategoryResource(category))
	}
	respond.Success(c, http.StatusOK, resources, "")
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	category := model.TaskCategory{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categories.Create(c.Request.Context(), &category); err != nil {
		s.logger.Error("create category failed", slog.String("error", err.Error()))
		serverError(c, "create category failed")
		return
	}

	respond.Success(c, http.StatusCreated, newCategoryResource(category), "Task category created successfully.")
}

// getOwnCategory resolves existence first (404), then ownership (403).
// Returns nil when a response has already been written.
func (s *Server) getOwnCategory(c *gin.Context) *model.TaskCategory {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task category not found.")
		return nil
	}

	category, err := s.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task category not found.")
			return nil
		}
		s.logger.Error("get category failed", slog.String("error", err.Error()))
		serverError(c, "get category failed")
		return nil
	}

	if category.UserID != currentUserID(c) {
		forbidden(c)
		return nil
	}
	return category
}

func (s *Server) handleShowCategory(c *gin.Context) {
	category := s.getOwnCategory(c)
	if category == nil {
		return
	}
	respond.Success(c, http.StatusOK, newCategoryResource(*category), "Task category retrieved successfully.")
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	category := s.getOwnCategory(c)
	if category == nil {
		return
	}

	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	updated, err := s.categories.Update(c.Request.Context(), category.ID, updates)
	if err != nil {
		s.logger.Error("update category failed", slog.String("error", err.Error()))
		serverError(c, "update category failed")
		return
	}

	respond.Success(c, http.StatusCreated, newCategoryResource(*updated), "Task category updated successfully.")
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	category := s.getOwnCategory(c)
	if category == nil {
		return
	}

	affected, err := s.categories.Delete(c.Request.Context(), category.ID)
	if err != nil {
		s.logger.Error("delete category failed", slog.String("error", err.Error()))
		serverError(c, "delete category failed")
		return
	}
	if affected == 0 {
		notFound(c, "Task category not found.")
		return
	}

	respond.NoContent(c)
}
