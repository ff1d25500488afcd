// Package companies bundles contractor tenant management as an HTTP module.
package companies

import (
	"leadpilot_backend/internal/companies/handler"
	"leadpilot_backend/internal/companies/repository"
	"leadpilot_backend/internal/companies/service"
	"leadpilot_backend/internal/events"
	apphttp "leadpilot_backend/internal/http"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the companies feature: repository, service, and handlers.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		svc:     svc,
	}
}

// Name identifies the module in logs.
func (m *Module) Name() string { return "companies" }

// Service exposes the company service so the leads module can resolve
// intake-form slugs.
func (m *Module) Service() *service.Service { return m.svc }

// RegisterRoutes mounts the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterPublicRoutes(ctx.Public)
}

var _ apphttp.Module = (*Module)(nil)
