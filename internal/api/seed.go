package api

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/model"
)

// SeedDefaults fills the global lookup tables when they are empty and
// provisions the configured admin account. Safe to run on every start.
func (s *Server) SeedDefaults(ctx context.Context) error {
	var priorityCount int64
	if err := s.db.WithContext(ctx).Model(&model.TaskPriority{}).Count(&priorityCount).Error; err != nil {
		return err
	}
	if priorityCount == 0 {
		priorities := []model.TaskPriority{
			{Name: "High", Level: 1},
			{Name: "Medium", Level: 2},
			{Name: "Low", Level: 3},
		}
		if err := s.db.WithContext(ctx).Create(&priorities).Error; err != nil {
			return err
		}
	}

	var statusCount int64
	if err := s.db.WithContext(ctx).Model(&model.TaskStatus{}).Count(&statusCount).Error; err != nil {
		return err
	}
	if statusCount == 0 {
		statuses := []model.TaskStatus{
			{Name: "Pending", Order: 1},
			{Name: "In Progress", Order: 2},
			{Name: "Completed", Order: 3},
		}
		if err := s.db.WithContext(ctx).Create(&statuses).Error; err != nil {
			return err
		}
	}

	return s.seedAdmin(ctx)
}

func (s *Server) seedAdmin(ctx context.Context) error {
	email := s.cfg.Security.AdminEmail
	password := s.cfg.Security.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role != model.RoleAdmin {
			return s.db.WithContext(ctx).
				Model(&model.User{}).
				Where("id = ?", user.ID).
				Update("role", model.RoleAdmin).Error
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user = model.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	s.logger.Info("admin account seeded", slog.String("email", email))
	return nil
}
