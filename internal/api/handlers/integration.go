package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/integration"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// IntegrationHandler handles integration management requests
type IntegrationHandler struct {
	service   integration.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewIntegrationHandler creates a new integration handler
func NewIntegrationHandler(service integration.Service, log *logger.Logger, val *validator.Validator) *IntegrationHandler {
	return &IntegrationHandler{service: service, logger: log, validator: val}
}

func newIntegrationDTO(in *integration.Integration) dto.IntegrationDTO {
	return dto.IntegrationDTO{
		ID: in.ID, ServiceID: in.ServiceID, Name: in.Name, Type: in.Type,
		RoutingKey: in.RoutingKey, Enabled: in.Enabled, CreatedAt: in.CreatedAt,
	}
}

// List returns integrations with pagination and filtering
// @Summary List integrations
// @Description Get a paginated list of integrations
// @Tags Integrations
// @Produce json
// @Param service_id query int false "Filter by service ID"
// @Param type query string false "Filter by type"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.IntegrationDTO} "List of integrations"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /integrations [get]
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	serviceID, _ := strconv.ParseInt(r.URL.Query().Get("service_id"), 10, 64)

	filter := integration.Filter{ServiceID: serviceID, Type: r.URL.Query().Get("type")}

	integrations, total, err := h.service.List(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list integrations")
		return
	}

	dtos := make([]dto.IntegrationDTO, len(integrations))
	for i, in := range integrations {
		dtos[i] = newIntegrationDTO(in)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single integration by ID
// @Summary Get integration by ID
// @Description Get an integration by ID
// @Tags Integrations
// @Produce json
// @Param id path int true "Integration ID"
// @Success 200 {object} dto.IntegrationDTO "Integration details"
// @Failure 404 {object} utils.ErrorResponse "Integration not found"
// @Security BearerAuth
// @Router /integrations/{id} [get]
func (h *IntegrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	in, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get integration")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newIntegrationDTO(in))
}

// Create creates a new integration with a generated routing key
// @Summary Create integration
// @Description Create a new integration; a routing key is generated server side
// @Tags Integrations
// @Accept json
// @Produce json
// @Param request body dto.CreateIntegrationRequest true "Integration details"
// @Success 201 {object} dto.IntegrationDTO "Integration created, including its routing key"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /integrations [post]
func (h *IntegrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	in := &integration.Integration{ServiceID: req.ServiceID, Name: req.Name, Type: req.Type}
	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create integration")
		return
	}

	in.ID = id
	utils.WriteSuccess(w, http.StatusCreated, newIntegrationDTO(in))
}

// Update updates an integration
// @Summary Update integration
// @Description Update an integration; omitted fields are left unchanged
// @Tags Integrations
// @Accept json
// @Produce json
// @Param id path int true "Integration ID"
// @Param request body dto.UpdateIntegrationRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse "Integration updated"
// @Failure 404 {object} utils.ErrorResponse "Integration not found"
// @Security BearerAuth
// @Router /integrations/{id} [put]
func (h *IntegrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.UpdateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}

	if err := h.service.Update(r.Context(), id, updates); err != nil {
		utils.WriteAppError(w, err, "Failed to update integration")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Integration updated successfully", nil)
}

// RotateKey replaces an integration's routing key
// @Summary Rotate routing key
// @Description Replace the integration's routing key; the old key stops working immediately
// @Tags Integrations
// @Produce json
// @Param id path int true "Integration ID"
// @Success 200 {object} map[string]string "New routing key"
// @Failure 404 {object} utils.ErrorResponse "Integration not found"
// @Security BearerAuth
// @Router /integrations/{id}/rotate-key [post]
func (h *IntegrationHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	key, err := h.service.RotateKey(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to rotate routing key")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"integration_id": id,
	}).Info("Routing key rotated")

	utils.WriteSuccess(w, http.StatusOK, map[string]string{"routingKey": key})
}

// Delete deletes an integration
// @Summary Delete integration
// @Description Delete an integration by ID
// @Tags Integrations
// @Produce json
// @Param id path int true "Integration ID"
// @Success 200 {object} utils.SuccessResponse "Integration deleted"
// @Failure 404 {object} utils.ErrorResponse "Integration not found"
// @Security BearerAuth
// @Router /integrations/{id} [delete]
func (h *IntegrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete integration")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Integration deleted successfully", nil)
}
