package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskhub/internal/api/respond"
	"taskhub/internal/model"
	"taskhub/internal/pkg/metrics"
	"taskhub/internal/pkg/ratelimit"
	"taskhub/internal/pkg/session"
)

// Handler provides the register and login endpoints.
type Handler struct {
	db        *gorm.DB
	sessions  *session.Store
	limiter   *ratelimit.Limiter
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// NewHandler creates the auth Handler.
func NewHandler(db *gorm.DB, sessions *session.Store, limiter *ratelimit.Limiter, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handler{
		db:        db,
		sessions:  sessions,
		limiter:   limiter,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

type registerRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string     `json:"token"`
	Role  model.Role `json:"role"`
}

type userResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

type customClaims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Register creates a new user with the default role.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	var existing model.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&existing).Error
	if err == nil {
		respond.FieldErrors(c, map[string]string{"email": "has already been taken"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respond.Error(c, http.StatusInternalServerError, "query user failed", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "hash password failed", nil)
		return
	}

	user := model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		h.logger.Error("create user failed", slog.String("email", email), slog.String("error", err.Error()))
		respond.Error(c, http.StatusInternalServerError, "create user failed", nil)
		return
	}

	h.logger.Info("user registered", slog.String("email", email))
	respond.Success(c, http.StatusCreated, userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, "User registered successfully.")
}

// Login checks credentials and returns a fresh bearer token. Issuing a new
// token replaces the user's live session entry, so every previously issued
// token stops working.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.ValidationError(c, err)
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	allowed, err := h.limiter.Allow(c.Request.Context(), email)
	if err != nil {
		// Fail open: a broken limiter should not lock everyone out.
		h.logger.Warn("login ratelimit check failed", slog.String("error", err.Error()))
		allowed = true
	}
	if !allowed {
		metrics.LoginThrottledTotal.Inc()
		respond.Error(c, http.StatusTooManyRequests, "too many login attempts", nil)
		return
	}

	var user model.User
	if err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		metrics.AuthFailuresTotal.Inc()
		respond.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthFailuresTotal.Inc()
		respond.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, tokenID, err := h.issueToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		respond.Error(c, http.StatusInternalServerError, "sign token failed", nil)
		return
	}

	if err := h.sessions.Save(c.Request.Context(), user.ID, tokenID); err != nil {
		h.logger.Error("save session failed", slog.String("email", email), slog.String("error", err.Error()))
		respond.Error(c, http.StatusInternalServerError, "save session failed", nil)
		return
	}

	h.logger.Info("user logged in", slog.String("email", email), slog.String("role", string(user.Role)))
	respond.Success(c, http.StatusOK, loginResponse{Token: token, Role: user.Role}, "")
}

func (h *Handler) issueToken(userID uint, role model.Role) (string, string, error) {
	tokenID := uuid.NewString()
	claims := customClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	return signed, tokenID, err
}
