package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"

	"taskhub/internal/config"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// newTestServer builds a Server on in-memory SQLite and miniredis. Login
// throttling is disabled; tests that need it use newTestServerWithConfig.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithConfig(t, nil)
}

func newTestServerWithConfig(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := repository.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		App: config.AppConfig{
			Env:          "test",
			LogLevel:     "error",
			TasksPerPage: 10,
			TokenTTL:     time.Hour,
		},
		Security: config.SecurityConfig{JWTSecret: "test_secret"},
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newServer(cfg, logger, db, rdb)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// doJSON performs a request against the server router with an optional
// JSON body and bearer token.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data from %q: %v", string(env.Data), err)
	}
}

func register(t *testing.T, s *Server, name, email, password string) {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/register", "", gin.H{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}
}

func login(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	decodeData(t, w, &data)
	if data.Token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return data.Token
}

func registerAndLogin(t *testing.T, s *Server, name, email, password string) string {
	t.Helper()
	register(t, s, name, email, password)
	return login(t, s, email, password)
}

// adminToken creates an admin account directly in the database and logs
// it in. Status mutation routes require this role.
func adminToken(t *testing.T, s *Server) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &model.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: string(hash),
		Role:     model.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return login(t, s, admin.Email, "admin-secret")
}

// createCategory makes a category through the API and returns its id.
func createCategory(t *testing.T, s *Server, token, name string) uint {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/task-categories", token, gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category %q: status = %d, body = %s", name, w.Code, w.Body.String())
	}
	var data struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &data)
	return data.ID
}
