package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/telecare/telecare-api/internal/application"
	"github.com/telecare/telecare-api/pkg/response"
	"github.com/telecare/telecare-api/pkg/validation"
)

// UserService is the application surface this handler needs.
type UserService interface {
	CreateUser(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error)
	ListUsers(ctx context.Context) ([]userapp.UserProjection, error)
	GetUser(ctx context.Context, id string) (*userapp.UserProjection, error)
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type UserHandler struct {
	Svc    UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.WithField("details", validation.ToDetails(err)).Debug("create user payload rejected")
		response.Error(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Svc.CreateUser(c.Request.Context(), userapp.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrEmailAndPasswordRequired):
			response.Error(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, userapp.ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "Role must be one of PATIENT, DOCTOR, ADMIN")
		case errors.Is(err, userapp.ErrUserExists):
			response.Error(c, http.StatusConflict, "User with this email or phone already exists")
		default:
			h.Logger.WithError(err).Error("create user failed")
			response.ErrorWithDetail(c, http.StatusInternalServerError, "Failed to create user", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "User created successfully", gin.H{"user": user})
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.ErrorWithDetail(c, http.StatusInternalServerError, "Failed to fetch users", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"count": len(users),
		"users": users,
	})
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.WithError(err).Error("get user failed")
		response.ErrorWithDetail(c, http.StatusInternalServerError, "Failed to fetch user", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "User retrieved successfully", gin.H{"user": user})
}

// Search handles GET /api/users/search for the doctor dashboard directory.
func (h *UserHandler) Search(c *gin.Context) {
	var req struct {
		Q    string `form:"q" binding:"required"`
		Size string `form:"size"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	size, _ := strconv.Atoi(req.Size)

	results, err := h.Svc.SearchUsers(c.Request.Context(), req.Q, size)
	if err != nil {
		h.Logger.WithError(err).Error("search users failed")
		response.ErrorWithDetail(c, http.StatusInternalServerError, "Failed to search users", err.Error())
		return
	}
	response.Success(c, http.StatusOK, "Search results retrieved successfully", gin.H{
		"count": len(results),
		"users": results,
	})
}
