package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/escalation"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// EscalationHandler handles escalation policy requests
type EscalationHandler struct {
	service   escalation.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(service escalation.Service, log *logger.Logger, val *validator.Validator) *EscalationHandler {
	return &EscalationHandler{service: service, logger: log, validator: val}
}

func newPolicyDTO(p *escalation.Policy) dto.PolicyDTO {
	return dto.PolicyDTO{
		ID: p.ID, TeamID: p.TeamID, Name: p.Name, Description: p.Description,
		Steps: p.Steps, RepeatCount: p.RepeatCount, CreatedAt: p.CreatedAt,
	}
}

// List returns escalation policies with pagination
// @Summary List escalation policies
// @Description Get a paginated list of escalation policies
// @Tags Escalation
// @Produce json
// @Param team_id query int false "Filter by team ID"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.PolicyDTO} "List of policies"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /escalation-policies [get]
func (h *EscalationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)

	policies, total, err := h.service.List(r.Context(), escalation.Filter{TeamID: teamID}, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list policies")
		return
	}

	dtos := make([]dto.PolicyDTO, len(policies))
	for i, pol := range policies {
		dtos[i] = newPolicyDTO(pol)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single policy by ID
// @Summary Get escalation policy
// @Description Get an escalation policy by ID
// @Tags Escalation
// @Produce json
// @Param id path int true "Policy ID"
// @Success 200 {object} dto.PolicyDTO "Policy details"
// @Failure 404 {object} utils.ErrorResponse "Policy not found"
// @Security BearerAuth
// @Router /escalation-policies/{id} [get]
func (h *EscalationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	pol, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get policy")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newPolicyDTO(pol))
}

// Create creates a new escalation policy
// @Summary Create escalation policy
// @Description Create a new escalation policy with at least one step
// @Tags Escalation
// @Accept json
// @Produce json
// @Param request body dto.CreatePolicyRequest true "Policy definition"
// @Success 201 {object} map[string]int64 "Policy created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /escalation-policies [post]
func (h *EscalationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	pol := &escalation.Policy{
		TeamID: req.TeamID, Name: req.Name, Description: req.Description,
		Steps: req.Steps, RepeatCount: req.RepeatCount,
	}

	id, err := h.service.Create(r.Context(), pol)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create policy")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Delete deletes an escalation policy
// @Summary Delete escalation policy
// @Description Delete an escalation policy by ID
// @Tags Escalation
// @Produce json
// @Param id path int true "Policy ID"
// @Success 200 {object} utils.SuccessResponse "Policy deleted"
// @Failure 404 {object} utils.ErrorResponse "Policy not found"
// @Security BearerAuth
// @Router /escalation-policies/{id} [delete]
func (h *EscalationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete policy")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Policy deleted successfully", nil)
}
