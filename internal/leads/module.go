// Package leads bundles the lead intake and dashboard feature as an HTTP
// module.
package leads

import (
	"leadpilot_backend/internal/adapters/storage"
	"leadpilot_backend/internal/events"
	apphttp "leadpilot_backend/internal/http"
	"leadpilot_backend/internal/leads/handler"
	"leadpilot_backend/internal/leads/repository"
	"leadpilot_backend/internal/leads/service"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the leads feature: repository, service, and both the public
// intake handler and the authenticated dashboard handler.
type Module struct {
	svc           *service.Service
	publicHandler *handler.PublicHandler
	dashHandler   *handler.Handler
}

func NewModule(pool *pgxpool.Pool, blobs storage.BlobStore, enqueue service.Enqueuer, companies handler.CompanyResolver, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, blobs, enqueue, bus, log)

	return &Module{
		svc:           svc,
		publicHandler: handler.NewPublic(svc, companies, val),
		dashHandler:   handler.New(svc),
	}
}

// Name identifies the module in logs.
func (m *Module) Name() string { return "leads" }

// Service exposes the lead service for composition roots that need it
// outside HTTP (the sweeper binary).
func (m *Module) Service() *service.Service { return m.svc }

// RegisterRoutes mounts the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterRoutes(ctx.Public)
	m.dashHandler.RegisterRoutes(ctx.Protected)
}
