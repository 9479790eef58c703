package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/metrics"
	"github.com/eaclient/user-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// userUsecaser is the subset of UserUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type userUsecaser interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		logger:      logger.With("component", "user_handler"),
	}
}

type createUserRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Age   *int64  `json:"age"`
	City  *string `json:"city"`
}

type deleteUserResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// GET /api/users
// Returns every user, newest id first. Zero users is an empty array, not an
// error.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUsecase.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNameEmailRequired})
		return
	}

	user, err := h.userUsecase.Create(c.Request.Context(), usecase.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   req.Age,
		City:  req.City,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.StoreConflictsTotal.WithLabelValues("users").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken})
			return
		}
		h.logger.Error("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, user)
}

// GET /api/users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("get user", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// PUT /api/users/:id
// Partial update: a field absent from the body stays unchanged, an explicit
// null clears age or city. Name and email cannot be nulled.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (patch.Name.Set && !patch.Name.Valid) || (patch.Email.Set && !patch.Email.Valid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFieldNotNullable})
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.StoreConflictsTotal.WithLabelValues("users").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTakenByOther})
		default:
			h.logger.Error("update user", "user_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		}
		return
	}

	h.logger.Info("user updated", "user_id", user.ID)
	c.JSON(http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userUsecase.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("delete user", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer, "details": err.Error()})
		return
	}

	h.logger.Info("user deleted", "user_id", id, "name", user.Name)
	c.JSON(http.StatusOK, deleteUserResponse{
		Message: fmt.Sprintf("User %s deleted", user.Name),
		ID:      id,
	})
}

// parseID reads the :id path param. A non-numeric id cannot name any record,
// so it answers 404 like any other missing id.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		return 0, false
	}
	return id, true
}
