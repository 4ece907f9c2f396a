package repository

import (
	"context"

	"github.com/google/uuid"
)

// Client is the stored account record of one managed client.
type Client struct {
	ID            uuid.UUID `db:"id"`
	ClientID      string    `db:"client_id"`
	Name          string    `db:"name"`
	Industry      *string   `db:"industry"`
	ContractValue *float64  `db:"contract_value"`
	MonthlySpend  float64   `db:"monthly_spend"`
	TotalLicenses int       `db:"total_licenses"`
	TotalUsers    int       `db:"total_users"`

	HealthScore      *float64 `db:"health_score"`
	ChurnRisk        *string  `db:"churn_risk"`
	ChurnProbability *float64 `db:"churn_probability"`

	OnTimePaymentRate      *float64 `db:"on_time_payment_rate"`
	SupportTicketsPerMonth *float64 `db:"support_tickets_per_month"`
	AvgResolutionDays      *float64 `db:"avg_resolution_days"`
	SupportSatisfaction    *float64 `db:"support_satisfaction"`
	FeaturesUsed           *int     `db:"features_used"`
	FeaturesAvailable      *int     `db:"features_available"`
	DaysSinceLastContact   *int     `db:"days_since_last_contact"`
	ContractAgeDays        *int     `db:"contract_age_days"`

	ContactName  *string `db:"contact_name"`
	ContactEmail *string `db:"contact_email"`
	ContactPhone *string `db:"contact_phone"`
	Status       string  `db:"status"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

// ScoreUpdate carries freshly computed scores for persistence.
type ScoreUpdate struct {
	HealthScore      *float64
	ChurnRisk        *string
	ChurnProbability *float64
}

// ClientReader provides read operations for clients.
type ClientReader interface {
	GetByClientID(ctx context.Context, clientID string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	ListAll(ctx context.Context) ([]Client, error)
	Exists(ctx context.Context, clientID string) (bool, error)
}

// ClientWriter provides write operations for clients.
type ClientWriter interface {
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, client Client) (Client, error)
	UpdateScores(ctx context.Context, clientID string, scores ScoreUpdate) error
	Delete(ctx context.Context, clientID string) error
}

// Repository combines all client repository operations.
type Repository interface {
	ClientReader
	ClientWriter
}
