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

// statusRequest is shared between store and update; both fields are
// required on either verb. The admin-only restriction lives on the route,
// not here.
type statusRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Order *int   `json:"order" binding:"required"`
}

func (s *Server) handleListStatuses(c *gin.Context) {
	statuses, err := s.statuses.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list statuses failed", slog.String("error", err.Error()))
		serverError(c, "list statuses failed")
		return
	}

	resources := make([]statusResource, 0, len(statuses))
	for _, status := range statuses {
		resources = append(resources, newStatusResource(status))
	}
	respond.Success(c, http.StatusOK, resources, "")
}

func (s *Server) handleCreateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	status := model.TaskStatus{Name: req.Name, Order: *req.Order}
	if err := s.statuses.Create(c.Request.Context(), &status); err != nil {
		s.logger.Error("create status failed", slog.String("error", err.Error()))
		serverError(c, "create status failed")
		return
	}

	respond.Success(c, http.StatusCreated, newStatusResource(status), "Task status created successfully.")
}

func (s *Server) handleShowStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task status not found.")
		return
	}

	status, err := s.statuses.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task status not found.")
			return
		}
		s.logger.Error("get status failed", slog.String("error", err.Error()))
		serverError(c, "get status failed")
		return
	}

	respond.Success(c, http.StatusOK, newStatusResource(*status), "Task status retrieved successfully.")
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task status not found.")
		return
	}

	if _, err := s.statuses.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Task status not found.")
			return
		}
		s.logger.Error("get status failed", slog.String("error", err.Error()))
		serverError(c, "get status failed")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}

	updated, err := s.statuses.Update(c.Request.Context(), id, map[string]interface{}{
		"name":  req.Name,
		"order": *req.Order,
	})
	if err != nil {
		s.logger.Error("update status failed", slog.String("error", err.Error()))
		serverError(c, "update status failed")
		return
	}

	respond.Success(c, http.StatusCreated, newStatusResource(*updated), "Task status updated successfully.")
}

func (s *Server) handleDeleteStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		notFound(c, "Task status not found.")
		return
	}

	affected, err := s.statuses.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("delete status failed", slog.String("error", err.Error()))
		serverError(c, "delete status failed")
		return
	}
	if affected == 0 {
		notFound(c, "Task status not found.")
		return
	}

	respond.NoContent(c)
}
