// Package clients provides the client accounts bounded context module.
// It owns the stored client records and runs the scoring engine on every
// mutation through the override policy.
package clients

import (
	apphttp "msp_portal_backend/internal/http"

	"msp_portal_backend/internal/clients/handler"
	"msp_portal_backend/internal/clients/repository"
	"msp_portal_backend/internal/clients/service"
	"msp_portal_backend/internal/scorecache"
	"msp_portal_backend/internal/scoring"
	"msp_portal_backend/platform/logger"
	"msp_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the clients module with all its dependencies.
func NewModule(pool *pgxpool.Pool, policy *scoring.Policy, cache *scorecache.Cache, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, policy, cache, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Service returns the service layer for external use (worker wiring).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts client routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/clients")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:clientId", m.handler.GetByClientID)
	group.PUT("/:clientId", m.handler.Update)
	group.DELETE("/:clientId", m.handler.Delete)
	group.GET("/:clientId/churn", m.handler.Churn)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
