package server

import (
	"context"

	"github.com/abduss/accounts/internal/auth"
	"github.com/abduss/accounts/internal/config"
	"github.com/abduss/accounts/internal/logger"
	"github.com/abduss/accounts/internal/metrics"
	"github.com/abduss/accounts/internal/token"
	"github.com/abduss/accounts/internal/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config      config.Config
	Logger      *zap.Logger
	DB          Pinger
	Issuer      *token.Issuer
	AuthService *auth.Service
	UserService *user.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware(deps.Logger))
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	if path := deps.Config.Metrics.PrometheusPath; path != "" {
		metrics.Register(router, path)
	}

	api := &router.RouterGroup
	if deps.AuthService != nil && deps.UserService != nil {
		auth.RegisterRoutes(api, deps.AuthService, deps.UserService, deps.Issuer)

		protected := api.Group("/")
		protected.Use(auth.RequireToken(deps.Issuer, token.AccessToken))
		user.RegisterRoutes(protected, deps.UserService)
	}

	return router
}
