package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"msp_portal_backend/platform/apperr"
)

const clientNotFoundMessage = "client not found"

const clientColumns = `
	id, client_id, name, industry, contract_value, monthly_spend,
	total_licenses, total_users, health_score, churn_risk, churn_probability,
	on_time_payment_rate, support_tickets_per_month, avg_resolution_days,
	support_satisfaction, features_used, features_available,
	days_since_last_contact, contract_age_days,
	contact_name, contact_email, contact_phone, status, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new clients repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByClientID retrieves a client by its external client ID.
func (r *Repo) GetByClientID(ctx context.Context, clientID string) (Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		WHERE client_id = $1`

	row := r.pool.QueryRow(ctx, query, clientID)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client by client_id: %w", err)
	}

	return client, nil
}

// List retrieves all clients ordered by name.
func (r *Repo) List(ctx context.Context) ([]Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// ListAll retrieves every non-churned client for bulk score refresh.
func (r *Repo) ListAll(ctx context.Context) ([]Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		WHERE status <> 'churned'
		ORDER BY client_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// Exists reports whether a client with the given external ID exists.
func (r *Repo) Exists(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE client_id = $1)`, clientID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("client exists: %w", err)
	}
	return exists, nil
}

// Create inserts a new client record.
func (r *Repo) Create(ctx context.Context, client Client) (Client, error) {
	query := `
		INSERT INTO clients (
			id, client_id, name, industry, contract_value, monthly_spend,
			total_licenses, total_users, health_score, churn_risk,
			churn_probability, on_time_payment_rate, support_tickets_per_month,
			avg_resolution_days, support_satisfaction, features_used,
			features_available, days_since_last_contact, contract_age_days,
			contact_name, contact_email, contact_phone, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING` + clientColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), client.ClientID, client.Name, client.Industry,
		client.ContractValue, client.MonthlySpend, client.TotalLicenses,
		client.TotalUsers, client.HealthScore, client.ChurnRisk,
		client.ChurnProbability, client.OnTimePaymentRate,
		client.SupportTicketsPerMonth, client.AvgResolutionDays,
		client.SupportSatisfaction, client.FeaturesUsed,
		client.FeaturesAvailable, client.DaysSinceLastContact,
		client.ContractAgeDays, client.ContactName, client.ContactEmail,
		client.ContactPhone, client.Status,
	)

	created, err := scanClient(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Client{}, apperr.Conflict("client with this ID already exists")
		}
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	return created, nil
}

// Update overwrites the mutable fields of an existing client.
func (r *Repo) Update(ctx context.Context, client Client) (Client, error) {
	query := `
		UPDATE clients SET
			name = $2, industry = $3, contract_value = $4, monthly_spend = $5,
			total_licenses = $6, total_users = $7, health_score = $8,
			churn_risk = $9, churn_probability = $10,
			on_time_payment_rate = $11, support_tickets_per_month = $12,
			avg_resolution_days = $13, support_satisfaction = $14,
			features_used = $15, features_available = $16,
			days_since_last_contact = $17, contract_age_days = $18,
			contact_name = $19, contact_email = $20, contact_phone = $21,
			status = $22, updated_at = now()
		WHERE client_id = $1
		RETURNING` + clientColumns

	row := r.pool.QueryRow(ctx, query,
		client.ClientID, client.Name, client.Industry, client.ContractValue,
		client.MonthlySpend, client.TotalLicenses, client.TotalUsers,
		client.HealthScore, client.ChurnRisk, client.ChurnProbability,
		client.OnTimePaymentRate, client.SupportTicketsPerMonth,
		client.AvgResolutionDays, client.SupportSatisfaction,
		client.FeaturesUsed, client.FeaturesAvailable,
		client.DaysSinceLastContact, client.ContractAgeDays,
		client.ContactName, client.ContactEmail, client.ContactPhone,
		client.Status,
	)

	updated, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("update client: %w", err)
	}

	return updated, nil
}

// UpdateScores persists freshly computed scores without touching metrics.
func (r *Repo) UpdateScores(ctx context.Context, clientID string, scores ScoreUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clients SET
			health_score = COALESCE($2, health_score),
			churn_risk = $3, churn_probability = $4, updated_at = now()
		WHERE client_id = $1`,
		clientID, scores.HealthScore, scores.ChurnRisk, scores.ChurnProbability,
	)
	if err != nil {
		return fmt.Errorf("update client scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

// Delete removes a client.
func (r *Repo) Delete(ctx context.Context, clientID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1`, clientID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(clientNotFoundMessage)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var c Client
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&c.ID, &c.ClientID, &c.Name, &c.Industry, &c.ContractValue,
		&c.MonthlySpend, &c.TotalLicenses, &c.TotalUsers, &c.HealthScore,
		&c.ChurnRisk, &c.ChurnProbability, &c.OnTimePaymentRate,
		&c.SupportTicketsPerMonth, &c.AvgResolutionDays,
		&c.SupportSatisfaction, &c.FeaturesUsed, &c.FeaturesAvailable,
		&c.DaysSinceLastContact, &c.ContractAgeDays, &c.ContactName,
		&c.ContactEmail, &c.ContactPhone, &c.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return Client{}, err
	}

	c.CreatedAt = createdAt.Format(time.RFC3339)
	c.UpdatedAt = updatedAt.Format(time.RFC3339)

	return c, nil
}

func scanClients(rows pgx.Rows) ([]Client, error) {
	clients := make([]Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
