package scheduler

import (
	"context"

	"msp_portal_backend/internal/clients/service"
	"msp_portal_backend/platform/config"
	"msp_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker runs background scoring tasks.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	clients *service.Service
	log     *logger.Logger
}

// NewWorker creates the asynq server and registers task handlers.
func NewWorker(cfg config.SchedulerConfig, clients *service.Service, log *logger.Logger) *Worker {
	concurrency := cfg.GetWorkerConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: concurrency,
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		clients: clients,
		log:     log,
	}

	mux.HandleFunc(TaskScoreRefresh, w.handleScoreRefresh)

	return w
}

// handleScoreRefresh recomputes scores for one client or for the whole
// portfolio. Per-client failures are logged and skipped so one bad record
// never aborts the batch.
func (w *Worker) handleScoreRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScoreRefreshPayload(task)
	if err != nil {
		return err
	}

	records, err := w.clients.ListForRefresh(ctx)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, record := range records {
		if payload.ClientID != "" && record.ClientID != payload.ClientID {
			continue
		}
		if err := w.clients.RefreshScores(ctx, record); err != nil {
			w.log.Warn("score refresh failed", "client_id", record.ClientID, "error", err)
			continue
		}
		refreshed++
	}

	w.log.Info("score refresh complete", "refreshed", refreshed, "total", len(records))
	return nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
