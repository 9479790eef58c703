package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/metrics"
	"github.com/eaclient/user-api/internal/transport/http/middleware"
	"github.com/eaclient/user-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (string, *domain.AuthUser, error)
	Login(ctx context.Context, username, password string) (string, *domain.AuthUser, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  *domain.AuthUser `json:"user"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRegisterFieldsRequired})
		return
	}

	tok, user, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCredentialsTaken) {
			metrics.StoreConflictsTotal.WithLabelValues("auth_users").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errCredentialsTaken})
			return
		}
		h.logger.Error("register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	h.logger.Info("account registered", "username", user.Username)
	c.JSON(http.StatusCreated, sessionResponse{Token: tok, User: user})
}

// POST /api/auth/login
// Unknown username and wrong password get the same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLoginFieldsRequired})
		return
	}

	tok, user, err := h.authUsecase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	h.logger.Info("account logged in", "username", user.Username)
	c.JSON(http.StatusOK, sessionResponse{Token: tok, User: user})
}

// GET /api/auth/me
// The Auth middleware has already resolved the bearer token; this only
// echoes the account it found.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.AuthUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
