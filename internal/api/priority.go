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

// priorityRequest is shared between store and update: the original
// contract requires both fields on either verb.
type priorityRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Level *int   `json:"level" binding:"required"`
}

func (s *Server) handleListPriorities(c *gin.Context) {
	priorities, err := s.priorities.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list priorities failed", slog.String("error", err.Error()))
		serverError(c, "list priorities failed")
		return
	}

	resources := make([]priorityResource, 0, len(priorities))
	for _, priority := range priorities {
		resources = append(resources, newPriorityResource(priority))
	}
	respond.Success(c, http.StatusOK, resources, "")
}

func (s *Server) handleCreatePriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	priority := model.TaskPriority{Name: req.Name, Level: *req.Level}
	if err := s.priorities.Create(c.Request.Context(), &priority); err != nil {
		s.logger.Error("create priority failed", slog.String("error", err.Error()))
		serverError(c, "create priority failed")
		return
	}

	respond.Success(c, http.StatusCreated, newPriorityResource(priority), "Task priority created successfully.")
}

func (s *Server) handleShowPriority(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task priority not found.")
		return
	}

	priority, err := s.priorities.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task priority not found.")
			return
		}
		s.logger.Error("get priority failed", slog.String("error", err.Error()))
		serverError(c, "get priority failed")
		return
	}

	respond.Success(c, http.StatusOK, newPriorityResource(*priority), "Task priority retrieved successfully.")
}

func (s *Server) handleUpdatePriority(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task priority not found.")
		return
	}

	if _, err := s.priorities.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task priority not found.")
			return
		}
		s.logger.Error("get priority failed", slog.String("error", err.Error()))
		serverError(c, "get priority failed")
		return
	}

	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	updated, err := s.priorities.Update(c.Request.Context(), id, map[string]interface{}{
		"name":  req.Name,
		"level": *req.Level,
	})
	if err != nil {
		s.logger.Error("update priority failed", slog.String("error", err.Error()))
		serverError(c, "update priority failed")
		return
	}

	respond.Success(c, http.StatusCreated, newPriorityResource(*updated), "Task priority updated successfully.")
}

func (s *Server) handleDeletePriority(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task priority not found.")
		return
	}

	affected, err := s.priorities.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("delete priority failed", slog.String("error", err.Error()))
		serverError(c, "delete priority failed")
		return
	}
	if affected == 0 {
		notFound(c, "Task priority not found.")
		return
	}

	respond.NoContent(c)
}
