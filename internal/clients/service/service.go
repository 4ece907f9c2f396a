package service

import (
	"context"

	"msp_portal_backend/internal/clients/repository"
	"msp_portal_backend/internal/clients/transport"
	"msp_portal_backend/internal/scorecache"
	"msp_portal_backend/internal/scoring"
	"msp_portal_backend/platform/logger"
)

const defaultStatus = "active"

// Service provides business logic for client accounts. Every mutation runs
// the override policy so stored scores never drift from stored metrics.
type Service struct {
	repo   repository.Repository
	policy *scoring.Policy
	cache  *scorecache.Cache
	log    *logger.Logger
}

// New creates a new clients service.
func New(repo repository.Repository, policy *scoring.Policy, cache *scorecache.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, policy: policy, cache: cache, log: log}
}

// Create onboards a client, scoring it under the override policy: a manual
// health score > 0 is trusted, anything else is computed when the core
// metrics allow it, and churn is always assessed.
func (s *Service) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	metrics := metricsFromCreate(req)

	outcome, err := s.policy.Evaluate(ctx, metrics)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	client := clientFromCreate(req)
	applyOutcome(&client, outcome)

	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	s.cacheOutcome(ctx, created.ClientID, outcome)

	return toResponse(created), nil
}

// GetByClientID retrieves a single client.
func (s *Service) GetByClientID(ctx context.Context, clientID string) (transport.ClientResponse, error) {
	client, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toResponse(client), nil
}

// List retrieves all clients.
func (s *Service) List(ctx context.Context) (transport.ClientListResponse, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	items := make([]transport.ClientResponse, 0, len(clients))
	for _, client := range clients {
		items = append(items, toResponse(client))
	}

	return transport.ClientListResponse{Items: items, Total: len(items)}, nil
}

// Update applies a partial update, re-runs the override policy on the merged
// record, and persists metrics and scores together.
func (s *Service) Update(ctx context.Context, clientID string, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	existing, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	merged := mergeUpdate(existing, req)
	metrics := metricsFromClient(merged)

	outcome, err := s.policy.EvaluateUpdate(ctx, metrics, req.HealthScore != nil, req.HealthScore)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	applyUpdateOutcome(&merged, outcome)

	updated, err := s.repo.Update(ctx, merged)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	if err := s.cache.Invalidate(ctx, clientID); err != nil {
		s.log.Warn("score cache invalidate failed", "client_id", clientID, "error", err)
	}
	s.cacheOutcome(ctx, clientID, outcome)

	return toResponse(updated), nil
}

// Delete removes a client and drops its cached scores.
func (s *Service) Delete(ctx context.Context, clientID string) error {
	if err := s.repo.Delete(ctx, clientID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, clientID); err != nil {
		s.log.Warn("score cache invalidate failed", "client_id", clientID, "error", err)
	}
	return nil
}

// Churn returns the full churn assessment for a client, served from cache
// when possible.
func (s *Service) Churn(ctx context.Context, clientID string) (transport.ChurnResponse, error) {
	client, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		return transport.ChurnResponse{}, err
	}

	if cached, err := s.cache.Get(ctx, clientID); err == nil && cached != nil && cached.Churn != nil {
		return transport.ChurnResponse{
			ClientID:    clientID,
			HealthScore: cached.HealthScore,
			Churn:       cached.Churn,
		}, nil
	}

	outcome, err := s.policy.Evaluate(ctx, metricsFromClient(client))
	if err != nil {
		return transport.ChurnResponse{}, err
	}

	s.cacheOutcome(ctx, clientID, outcome)

	health := client.HealthScore
	if outcome.HealthScore != nil {
		health = outcome.HealthScore
	}

	return transport.ChurnResponse{
		ClientID:    clientID,
		HealthScore: health,
		Churn:       outcome.Churn,
	}, nil
}

// RefreshScores recomputes scores for one stored client and persists any
// change. Used by the bulk refresh worker.
func (s *Service) RefreshScores(ctx context.Context, client repository.Client) error {
	outcome, err := s.policy.Evaluate(ctx, metricsFromClient(client))
	if err != nil {
		return err
	}

	update := repository.ScoreUpdate{HealthScore: outcome.HealthScore}
	if outcome.Churn != nil {
		level := string(outcome.Churn.RiskLevel)
		update.ChurnRisk = &level
		update.ChurnProbability = &outcome.Churn.Probability
	}

	if err := s.repo.UpdateScores(ctx, client.ClientID, update); err != nil {
		return err
	}

	s.cacheOutcome(ctx, client.ClientID, outcome)
	return nil
}

// ListForRefresh exposes the raw records the bulk refresh iterates over.
func (s *Service) ListForRefresh(ctx context.Context) ([]repository.Client, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) cacheOutcome(ctx context.Context, clientID string, outcome scoring.Outcome) {
	result := scoring.ScoreResult{HealthScore: outcome.HealthScore, Churn: outcome.Churn}
	if err := s.cache.Set(ctx, clientID, result); err != nil {
		s.log.Warn("score cache set failed", "client_id", clientID, "error", err)
	}
}

func metricsFromCreate(req transport.CreateClientRequest) scoring.ClientMetrics {
	return scoring.ClientMetrics{
		TotalLicenses:          req.TotalLicenses,
		TotalUsers:             req.TotalUsers,
		MonthlySpend:           req.MonthlySpend,
		ContractValue:          req.ContractValue,
		HealthScore:            req.HealthScore,
		OnTimePaymentRate:      req.OnTimePaymentRate,
		SupportTicketsPerMonth: req.SupportTicketsPerMonth,
		AvgResolutionDays:      req.AvgResolutionDays,
		SupportSatisfaction:    req.SupportSatisfaction,
		FeaturesUsed:           req.FeaturesUsed,
		FeaturesAvailable:      req.FeaturesAvailable,
		DaysSinceLastContact:   req.DaysSinceLastContact,
		ContractAgeDays:        req.ContractAgeDays,
	}
}

func metricsFromClient(client repository.Client) scoring.ClientMetrics {
	return scoring.ClientMetrics{
		TotalLicenses:          client.TotalLicenses,
		TotalUsers:             client.TotalUsers,
		MonthlySpend:           client.MonthlySpend,
		ContractValue:          client.ContractValue,
		HealthScore:            client.HealthScore,
		OnTimePaymentRate:      client.OnTimePaymentRate,
		SupportTicketsPerMonth: client.SupportTicketsPerMonth,
		AvgResolutionDays:      client.AvgResolutionDays,
		SupportSatisfaction:    client.SupportSatisfaction,
		FeaturesUsed:           client.FeaturesUsed,
		FeaturesAvailable:      client.FeaturesAvailable,
		DaysSinceLastContact:   client.DaysSinceLastContact,
		ContractAgeDays:        client.ContractAgeDays,
	}
}

func clientFromCreate(req transport.CreateClientRequest) repository.Client {
	return repository.Client{
		ClientID:               req.ClientID,
		Name:                   req.Name,
		Industry:               req.Industry,
		ContractValue:          req.ContractValue,
		MonthlySpend:           req.MonthlySpend,
		TotalLicenses:          req.TotalLicenses,
		TotalUsers:             req.TotalUsers,
		OnTimePaymentRate:      req.OnTimePaymentRate,
		SupportTicketsPerMonth: req.SupportTicketsPerMonth,
		AvgResolutionDays:      req.AvgResolutionDays,
		SupportSatisfaction:    req.SupportSatisfaction,
		FeaturesUsed:           req.FeaturesUsed,
		FeaturesAvailable:      req.FeaturesAvailable,
		DaysSinceLastContact:   req.DaysSinceLastContact,
		ContractAgeDays:        req.ContractAgeDays,
		ContactName:            req.ContactName,
		ContactEmail:           req.ContactEmail,
		ContactPhone:           req.ContactPhone,
		Status:                 defaultStatus,
	}
}

func applyOutcome(client *repository.Client, outcome scoring.Outcome) {
	client.HealthScore = outcome.HealthScore
	if outcome.Churn != nil {
		level := string(outcome.Churn.RiskLevel)
		client.ChurnRisk = &level
		client.ChurnProbability = &outcome.Churn.Probability
	}
}

// applyUpdateOutcome differs from the create path: a skip keeps the stored
// score instead of clearing it.
func applyUpdateOutcome(client *repository.Client, outcome scoring.Outcome) {
	if outcome.HealthScore != nil {
		client.HealthScore = outcome.HealthScore
	}
	if outcome.Churn != nil {
		level := string(outcome.Churn.RiskLevel)
		client.ChurnRisk = &level
		client.ChurnProbability = &outcome.Churn.Probability
	}
}

func mergeUpdate(existing repository.Client, req transport.UpdateClientRequest) repository.Client {
	merged := existing

	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Industry != nil {
		merged.Industry = req.Industry
	}
	if req.ContractValue != nil {
		merged.ContractValue = req.ContractValue
	}
	if req.MonthlySpend != nil {
		merged.MonthlySpend = *req.MonthlySpend
	}
	if req.TotalLicenses != nil {
		merged.TotalLicenses = *req.TotalLicenses
	}
	if req.TotalUsers != nil {
		merged.TotalUsers = *req.TotalUsers
	}
	if req.OnTimePaymentRate != nil {
		merged.OnTimePaymentRate = req.OnTimePaymentRate
	}
	if req.SupportTicketsPerMonth != nil {
		merged.SupportTicketsPerMonth = req.SupportTicketsPerMonth
	}
	if req.AvgResolutionDays != nil {
		merged.AvgResolutionDays = req.AvgResolutionDays
	}
	if req.SupportSatisfaction != nil {
		merged.SupportSatisfaction = req.SupportSatisfaction
	}
	if req.FeaturesUsed != nil {
		merged.FeaturesUsed = req.FeaturesUsed
	}
	if req.FeaturesAvailable != nil {
		merged.FeaturesAvailable = req.FeaturesAvailable
	}
	if req.DaysSinceLastContact != nil {
		merged.DaysSinceLastContact = req.DaysSinceLastContact
	}
	if req.ContractAgeDays != nil {
		merged.ContractAgeDays = req.ContractAgeDays
	}
	if req.ContactName != nil {
		merged.ContactName = req.ContactName
	}
	if req.ContactEmail != nil {
		merged.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		merged.ContactPhone = req.ContactPhone
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	return merged
}

func toResponse(client repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ClientID:               client.ClientID,
		Name:                   client.Name,
		Industry:               client.Industry,
		ContractValue:          client.ContractValue,
		MonthlySpend:           client.MonthlySpend,
		TotalLicenses:          client.TotalLicenses,
		TotalUsers:             client.TotalUsers,
		UtilizationRate:        scoring.UtilizationRatio(client.TotalUsers, client.TotalLicenses) * 100,
		HealthScore:            client.HealthScore,
		ChurnRisk:              client.ChurnRisk,
		ChurnProbability:       client.ChurnProbability,
		OnTimePaymentRate:      client.OnTimePaymentRate,
		SupportTicketsPerMonth: client.SupportTicketsPerMonth,
		AvgResolutionDays:      client.AvgResolutionDays,
		SupportSatisfaction:    client.SupportSatisfaction,
		FeaturesUsed:           client.FeaturesUsed,
		FeaturesAvailable:      client.FeaturesAvailable,
		DaysSinceLastContact:   client.DaysSinceLastContact,
		ContractAgeDays:        client.ContractAgeDays,
		ContactName:            client.ContactName,
		ContactEmail:           client.ContactEmail,
		ContactPhone:           client.ContactPhone,
		Status:                 client.Status,
		CreatedAt:              client.CreatedAt,
		UpdatedAt:              client.UpdatedAt,
	}
}
