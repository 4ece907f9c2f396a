package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msp_portal_backend/internal/clients/service"
	"msp_portal_backend/internal/clients/transport"
	"msp_portal_backend/platform/httpkit"
	"msp_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgClientIDRequired = "client ID is required"
)

// Handler handles HTTP requests for client accounts.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new clients handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all clients.
// GET /api/v1/clients
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create onboards a new client.
// POST /api/v1/clients
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByClientID retrieves one client.
// GET /api/v1/clients/:clientId
func (h *Handler) GetByClientID(c *gin.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgClientIDRequired, nil)
		return
	}

	result, err := h.svc.GetByClientID(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update applies a partial update to a client.
// PUT /api/v1/clients/:clientId
func (h *Handler) Update(c *gin.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgClientIDRequired, nil)
		return
	}

	var req transport.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), clientID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a client.
// DELETE /api/v1/clients/:clientId
func (h *Handler) Delete(c *gin.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgClientIDRequired, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), clientID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Churn returns the full churn assessment for a client.
// GET /api/v1/clients/:clientId/churn
func (h *Handler) Churn(c *gin.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgClientIDRequired, nil)
		return
	}

	result, err := h.svc.Churn(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
