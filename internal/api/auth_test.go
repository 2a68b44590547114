package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"taskhub/internal/config"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/register", "", gin.H{
		"name":                  "Alice",
		"email":                 "alice@example.com",
		"password":              "secret1",
		"password_confirmation": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var data struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeData(t, w, &data)
	if data.ID == 0 {
		t.Fatalf("expected a user id")
	}
	if data.Email != "alice@example.com" {
		t.Fatalf("email = %q", data.Email)
	}
	if data.Role != "user" {
		t.Fatalf("role = %q, want user", data.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "secret1")

	w := doJSON(t, s, http.MethodPost, "/register", "", gin.H{
		"name":                  "Alice Again",
		"email":                 "alice@example.com",
		"password":              "secret2",
		"password_confirmation": "secret2",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "email") {
		t.Fatalf("expected field error on email, body = %s", w.Body.String())
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/register", "", gin.H{
		"name":                  "Bob",
		"email":                 "bob@example.com",
		"password":              "secret1",
		"password_confirmation": "different",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Fatalf("expected success=false")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/register", "", gin.H{"email": "x@example.com"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "secret1")

	w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decodeData(t, w, &data)
	if data.Token == "" {
		t.Fatalf("expected a token")
	}
	if data.Role != "user" {
		t.Fatalf("role = %q, want user", data.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "secret1")

	w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "nope-wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin_RevokesPreviousToken(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "Alice", "alice@example.com", "secret1")

	first := login(t, s, "alice@example.com", "secret1")
	if w := doJSON(t, s, http.MethodGet, "/task-categories", first, nil); w.Code != http.StatusOK {
		t.Fatalf("first token before relogin: status = %d", w.Code)
	}

	second := login(t, s, "alice@example.com", "secret1")

	if w := doJSON(t, s, http.MethodGet, "/task-categories", first, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("first token after relogin: status = %d, want 401", w.Code)
	}
	if w := doJSON(t, s, http.MethodGet, "/task-categories", second, nil); w.Code != http.StatusOK {
		t.Fatalf("second token: status = %d, want 200", w.Code)
	}
}

func TestLogin_Throttled(t *testing.T) {
	s := newTestServerWithConfig(t, func(cfg *config.Config) {
		cfg.App.LoginRateLimit = 0.001
		cfg.App.LoginRateBurst = 2
	})
	register(t, s, "Alice", "alice@example.com", "secret1")

	for i := 0; i < 2; i++ {
		w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i, w.Code)
		}
	}

	w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429, body = %s", w.Code, w.Body.String())
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/tasks", "/task-categories", "/task-priorities", "/task-statuses"} {
		w := doJSON(t, s, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: status = %d, want 401", path, w.Code)
		}
	}
}

func TestProtectedRoutes_RejectGarbageToken(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/tasks", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
