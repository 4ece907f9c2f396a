package scheduler

import (
	"net/http"

	apphttp "msp_portal_backend/internal/http"
	"msp_portal_backend/platform/httpkit"
	"msp_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module exposes the on-demand refresh endpoint, implementing http.Module.
type Module struct {
	enqueuer RefreshEnqueuer
	log      *logger.Logger
}

// NewModule wraps a refresh enqueuer for HTTP registration.
func NewModule(enqueuer RefreshEnqueuer, log *logger.Logger) *Module {
	return &Module{enqueuer: enqueuer, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scheduler"
}

// RegisterRoutes mounts the admin refresh trigger.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/scores/refresh", m.refresh)
}

// refresh queues a portfolio-wide score recomputation.
// POST /api/v1/admin/scores/refresh
func (m *Module) refresh(c *gin.Context) {
	var payload ScoreRefreshPayload
	// Body is optional; an empty payload refreshes everything.
	_ = c.ShouldBindJSON(&payload)

	if err := m.enqueuer.EnqueueScoreRefresh(c.Request.Context(), payload); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to enqueue refresh", nil)
		return
	}

	m.log.Info("score refresh queued",
		"triggered_by", httpkit.GetIdentity(c).UserID().String(),
		"client_id", payload.ClientID)

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
