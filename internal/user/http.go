package user

import (
	"errors"
	"net/http"

	"github.com/abduss/accounts/internal/logger"
	"github.com/abduss/accounts/internal/password"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the /user endpoints onto the router.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	users := group.Group("/user")
	{
		users.POST("", handler.create)
		users.GET("", handler.list)

		byID := users.Group("/:id", RequireExistingUser(service))
		byID.GET("", handler.get)
		byID.PATCH("", handler.update)
		byID.DELETE("", handler.remove)
	}
}

type httpHandler struct {
	service *Service
}

// CreateRequest is the body of POST /user and POST /auth/sign-up.
type CreateRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required,max=72,strongpassword"`
}

// Input converts the request into service input.
func (r CreateRequest) Input() CreateInput {
	return CreateInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Login:       r.Login,
		Password:    r.Password,
	}
}

type updateRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,min=1"`
	LastName    *string `json:"lastName" binding:"omitempty,min=1"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
}

type countResponse struct {
	Affected int64 `json:"affected"`
}

func (h *httpHandler) create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Create(c.Request.Context(), req.Input())
	if err != nil {
		WriteCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// WriteCreateError maps a Create failure to its HTTP response.
func WriteCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLoginAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with the same login already exists"})
	case errors.Is(err, ErrInvalidPhoneNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, password.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": password.ErrPasswordTooLong.Error()})
	default:
		logger.FromContext(c).Error("create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
	}
}

func (h *httpHandler) list(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.FromContext(c).Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "None users found"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *httpHandler) get(c *gin.Context) {
	user, _ := ResolvedUser(c)
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) update(c *gin.Context) {
	user, _ := ResolvedUser(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := h.service.Update(c.Request.Context(), user.ID, UpdateParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if errors.Is(err, ErrInvalidPhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.FromContext(c).Error("update user", zap.Error(err), zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, countResponse{Affected: affected})
}

func (h *httpHandler) remove(c *gin.Context) {
	user, _ := ResolvedUser(c)

	affected, err := h.service.Remove(c.Request.Context(), user.ID)
	if err != nil {
		logger.FromContext(c).Error("remove user", zap.Error(err), zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, countResponse{Affected: affected})
}
