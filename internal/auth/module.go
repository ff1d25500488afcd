// Package auth bundles sign-in and profile endpoints as an HTTP module.
package auth

import (
	"leadpilot_backend/internal/auth/handler"
	"leadpilot_backend/internal/auth/repository"
	"leadpilot_backend/internal/auth/service"
	apphttp "leadpilot_backend/internal/http"
	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the auth feature: repository, token service, and handlers.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
	}
}

// Name identifies the module in logs.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts auth routes. Sign-in sits behind the stricter auth
// rate limiter; profile routes require a valid token.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(authGroup)

	ctx.Protected.GET("/auth/me", m.handler.Me)
	ctx.Protected.POST("/auth/password", m.handler.ChangePassword)
}

var _ apphttp.Module = (*Module)(nil)
