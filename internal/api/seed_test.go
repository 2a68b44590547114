package api

import (
	"context"
	"net/http"
	"testing"

	"taskhub/internal/config"
	"taskhub/internal/model"
)

func TestSeedDefaults(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if err := s.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Running again must not duplicate the lookup rows.
	if err := s.SeedDefaults(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var priorityCount, statusCount int64
	if err := s.db.Model(&model.TaskPriority{}).Count(&priorityCount).Error; err != nil {
		t.Fatalf("count priorities: %v", err)
	}
	if err := s.db.Model(&model.TaskStatus{}).Count(&statusCount).Error; err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if priorityCount != 3 {
		t.Fatalf("priorities = %d, want 3", priorityCount)
	}
	if statusCount != 3 {
		t.Fatalf("statuses = %d, want 3", statusCount)
	}

	var high model.TaskPriority
	if err := s.db.Where("name = ?", "High").First(&high).Error; err != nil {
		t.Fatalf("load High priority: %v", err)
	}
	if high.Level != 1 {
		t.Fatalf("High level = %d, want 1", high.Level)
	}
}

func TestSeedDefaults_AdminAccount(t *testing.T) {
	s := newTestServerWithConfig(t, func(cfg *config.Config) {
		cfg.Security.AdminEmail = "root@example.com"
		cfg.Security.AdminPassword = "root-secret"
	})
	ctx := context.Background()

	if err := s.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	token := login(t, s, "root@example.com", "root-secret")

	// The seeded account carries the admin role, so status mutation works.
	w := doJSON(t, s, http.MethodPost, "/task-statuses", token, map[string]interface{}{
		"name":  "Archived",
		"order": 9,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status as seeded admin: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestSeedDefaults_PromotesExistingUser(t *testing.T) {
	s := newTestServerWithConfig(t, func(cfg *config.Config) {
		cfg.Security.AdminEmail = "alice@example.com"
		cfg.Security.AdminPassword = "ignored-when-promoting"
	})
	register(t, s, "Alice", "alice@example.com", "secret1")

	if err := s.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var user model.User
	if err := s.db.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Fatalf("role = %q, want admin", user.Role)
	}
}
