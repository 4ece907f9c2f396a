package transport

import "msp_portal_backend/internal/scoring"

// CreateClientRequest contains data for onboarding a new client.
type CreateClientRequest struct {
	ClientID      string   `json:"clientId" validate:"required,min=1,max=64"`
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	Industry      *string  `json:"industry,omitempty" validate:"omitempty,max=100"`
	ContractValue *float64 `json:"contractValue,omitempty" validate:"omitempty,min=0"`
	MonthlySpend  float64  `json:"monthlySpend" validate:"min=0"`
	TotalLicenses int      `json:"totalLicenses" validate:"min=0"`
	TotalUsers    int      `json:"totalUsers" validate:"min=0"`

	// HealthScore is a manual override; zero or absent means "compute it".
	HealthScore *float64 `json:"healthScore,omitempty" validate:"omitempty,min=0,max=100"`

	OnTimePaymentRate      *float64 `json:"onTimePaymentRate,omitempty" validate:"omitempty,min=0,max=100"`
	SupportTicketsPerMonth *float64 `json:"supportTicketsPerMonth,omitempty" validate:"omitempty,min=0"`
	AvgResolutionDays      *float64 `json:"avgResolutionDays,omitempty" validate:"omitempty,min=0"`
	SupportSatisfaction    *float64 `json:"supportSatisfaction,omitempty" validate:"omitempty,min=0,max=1"`
	FeaturesUsed           *int     `json:"featuresUsed,omitempty" validate:"omitempty,min=0"`
	FeaturesAvailable      *int     `json:"featuresAvailable,omitempty" validate:"omitempty,min=0"`
	DaysSinceLastContact   *int     `json:"daysSinceLastContact,omitempty" validate:"omitempty,min=0"`
	ContractAgeDays        *int     `json:"contractAgeDays,omitempty" validate:"omitempty,min=0"`

	ContactName  *string `json:"contactName,omitempty" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email,max=200"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitempty,max=50"`
}

// UpdateClientRequest is an all-pointer partial update. A nil field leaves
// the stored value untouched.
type UpdateClientRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Industry      *string  `json:"industry,omitempty" validate:"omitempty,max=100"`
	ContractValue *float64 `json:"contractValue,omitempty" validate:"omitempty,min=0"`
	MonthlySpend  *float64 `json:"monthlySpend,omitempty" validate:"omitempty,min=0"`
	TotalLicenses *int     `json:"totalLicenses,omitempty" validate:"omitempty,min=0"`
	TotalUsers    *int     `json:"totalUsers,omitempty" validate:"omitempty,min=0"`

	HealthScore *float64 `json:"healthScore,omitempty" validate:"omitempty,min=0,max=100"`

	OnTimePaymentRate      *float64 `json:"onTimePaymentRate,omitempty" validate:"omitempty,min=0,max=100"`
	SupportTicketsPerMonth *float64 `json:"supportTicketsPerMonth,omitempty" validate:"omitempty,min=0"`
	AvgResolutionDays      *float64 `json:"avgResolutionDays,omitempty" validate:"omitempty,min=0"`
	SupportSatisfaction    *float64 `json:"supportSatisfaction,omitempty" validate:"omitempty,min=0,max=1"`
	FeaturesUsed           *int     `json:"featuresUsed,omitempty" validate:"omitempty,min=0"`
	FeaturesAvailable      *int     `json:"featuresAvailable,omitempty" validate:"omitempty,min=0"`
	DaysSinceLastContact   *int     `json:"daysSinceLastContact,omitempty" validate:"omitempty,min=0"`
	ContractAgeDays        *int     `json:"contractAgeDays,omitempty" validate:"omitempty,min=0"`

	ContactName  *string `json:"contactName,omitempty" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email,max=200"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitempty,max=50"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive churned"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ClientID         string   `json:"clientId"`
	Name             string   `json:"name"`
	Industry         *string  `json:"industry,omitempty"`
	ContractValue    *float64 `json:"contractValue,omitempty"`
	MonthlySpend     float64  `json:"monthlySpend"`
	TotalLicenses    int      `json:"totalLicenses"`
	TotalUsers       int      `json:"totalUsers"`
	UtilizationRate  float64  `json:"utilizationRate"`
	HealthScore      *float64 `json:"healthScore,omitempty"`
	ChurnRisk        *string  `json:"churnRisk,omitempty"`
	ChurnProbability *float64 `json:"churnProbability,omitempty"`

	OnTimePaymentRate      *float64 `json:"onTimePaymentRate,omitempty"`
	SupportTicketsPerMonth *float64 `json:"supportTicketsPerMonth,omitempty"`
	AvgResolutionDays      *float64 `json:"avgResolutionDays,omitempty"`
	SupportSatisfaction    *float64 `json:"supportSatisfaction,omitempty"`
	FeaturesUsed           *int     `json:"featuresUsed,omitempty"`
	FeaturesAvailable      *int     `json:"featuresAvailable,omitempty"`
	DaysSinceLastContact   *int     `json:"daysSinceLastContact,omitempty"`
	ContractAgeDays        *int     `json:"contractAgeDays,omitempty"`

	ContactName  *string `json:"contactName,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ClientListResponse wraps a list of clients.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Total int              `json:"total"`
}

// ChurnResponse is the full churn assessment for one client.
type ChurnResponse struct {
	ClientID    string              `json:"clientId"`
	HealthScore *float64            `json:"healthScore,omitempty"`
	Churn       *scoring.Prediction `json:"churn"`
}
