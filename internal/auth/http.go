package auth

import (
	"errors"
	"net/http"

	"github.com/abduss/accounts/internal/logger"
	"github.com/abduss/accounts/internal/metrics"
	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts authentication endpoints under /auth.
func RegisterRoutes(router *gin.RouterGroup, service *Service, users *user.Service, verifier tokenVerifier) {
	handler := &httpHandler{service: service, users: users}
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/sign-up", handler.signUp)
		authGroup.POST("/sign-in", handler.signIn)
		authGroup.GET("/refresh", RequireToken(verifier, token.RefreshToken), handler.refresh)
	}
}

type httpHandler struct {
	service *Service
	users   *user.Service
}

type signInRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *httpHandler) signUp(c *gin.Context) {
	var req user.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taken, err := h.users.LoginTaken(c.Request.Context(), req.Login)
	if err != nil {
		logger.FromContext(c).Error("check login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}
	if taken {
		user.WriteCreateError(c, user.ErrLoginAlreadyExists)
		return
	}

	created, err := h.users.Create(c.Request.Context(), req.Input())
	if err != nil {
		user.WriteCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *httpHandler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ObserveLogin(metrics.LoginRejected)
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}

	pair, err := h.service.Login(c.Request.Context(), Credentials{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		default:
			logger.FromContext(c).Error("sign in", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *httpHandler) refresh(c *gin.Context) {
	userID, _ := CurrentUserID(c)

	pair, err := h.service.Refresh(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		default:
			logger.FromContext(c).Error("refresh tokens", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh tokens"})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}
