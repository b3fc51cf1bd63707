package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/domain/routing"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// DefaultMatchLimit bounds the match history returned per rule.
const DefaultMatchLimit = 50

// RoutingHandler handles routing rule management and dry-run requests
type RoutingHandler struct {
	service   routing.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewRoutingHandler creates a new routing handler
func NewRoutingHandler(service routing.Service, log *logger.Logger, val *validator.Validator) *RoutingHandler {
	return &RoutingHandler{service: service, logger: log, validator: val}
}

// List returns all rules for a team in evaluation order
// @Summary List routing rules
// @Description Get a team's routing rules ordered by priority descending
// @Tags Routing
// @Produce json
// @Param team_id query int true "Team ID"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.RuleDTO} "List of rules"
// @Failure 400 {object} utils.ErrorResponse "Missing team ID"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /routing/rules [get]
func (h *RoutingHandler) List(w http.ResponseWriter, r *http.Request) {
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if teamID == 0 {
		utils.WriteError(w, errors.BadRequest("team_id is required"))
		return
	}

	rules, err := h.service.FindByTeam(r.Context(), teamID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list rules")
		return
	}

	dtos := make([]dto.RuleDTO, len(rules))
	for i, rule := range rules {
		dtos[i] = dto.NewRuleDTO(rule)
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Get returns a single rule by ID
// @Summary Get routing rule
// @Description Get a routing rule by ID
// @Tags Routing
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.RuleDTO "Rule details"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /routing/rules/{id} [get]
func (h *RoutingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	rule, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get rule")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewRuleDTO(rule))
}

// Create creates a new routing rule
// @Summary Create routing rule
// @Description Create a new routing rule for a team
// @Tags Routing
// @Accept json
// @Produce json
// @Param request body dto.CreateRuleRequest true "Rule definition"
// @Success 201 {object} map[string]int64 "Rule created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /routing/rules [post]
func (h *RoutingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rule := &routing.Rule{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Enabled:     enabled,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
	}

	id, err := h.service.Create(r.Context(), rule)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create rule")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update applies a partial update to a rule
// @Summary Update routing rule
// @Description Update a routing rule; omitted fields are left unchanged
// @Tags Routing
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Param request body dto.UpdateRuleRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse "Rule updated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /routing/rules/{id} [put]
func (h *RoutingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	patch := &routing.RulePatch{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Enabled:     req.Enabled,
		Conditions:  req.Conditions,
		Actions:     req.Actions,
	}

	if err := h.service.Update(r.Context(), id, patch); err != nil {
		utils.WriteAppError(w, err, "Failed to update rule")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Rule updated successfully", nil)
}

// UpdatePriority changes only a rule's priority
// @Summary Update rule priority
// @Description Change a rule's position in the evaluation order
// @Tags Routing
// @Accept json
// @Produce json
// @Param id path int true "Rule ID"
// @Param request body dto.UpdateRulePriorityRequest true "New priority"
// @Success 200 {object} utils.SuccessResponse "Priority updated"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /routing/rules/{id}/priority [put]
func (h *RoutingHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.UpdateRulePriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if err := h.service.UpdatePriority(r.Context(), id, req.Priority); err != nil {
		utils.WriteAppError(w, err, "Failed to update priority")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Priority updated successfully", nil)
}

// Delete deletes a routing rule
// @Summary Delete routing rule
// @Description Delete a routing rule by ID
// @Tags Routing
// @Produce json
// @Param id path int true "Rule ID"
// @Success 200 {object} utils.SuccessResponse "Rule deleted"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /routing/rules/{id} [delete]
func (h *RoutingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete rule")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Rule deleted successfully", nil)
}

// GetMatches returns a rule's recent match audit records
// @Summary Get rule match history
// @Description Get the most recent match audit records for a rule
// @Tags Routing
// @Produce json
// @Param id path int true "Rule ID"
// @Param limit query int false "Maximum records (default: 50)"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.MatchDTO} "Match records, newest first"
// @Failure 404 {object} utils.ErrorResponse "Rule not found"
// @Security BearerAuth
// @Router /routing/rules/{id}/matches [get]
func (h *RoutingHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > utils.MaxPageSize {
		limit = DefaultMatchLimit
	}

	matches, err := h.service.GetMatchesByRule(r.Context(), id, limit)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get matches")
		return
	}

	dtos := make([]dto.MatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = dto.MatchDTO{ID: m.ID, AlertID: m.AlertID, RuleID: m.RuleID, MatchedAt: m.MatchedAt}
	}

	utils.WriteSuccess(w, http.StatusOK, dtos)
}

// Test dry-runs a condition document against a sample alert
// @Summary Test rule conditions
// @Description Evaluate a condition document against a sample alert without touching stored rules or writing audit records
// @Tags Routing
// @Accept json
// @Produce json
// @Param request body dto.TestRuleRequest true "Conditions and sample alert"
// @Success 200 {object} routing.TestResult "Dry-run outcome"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /routing/rules/test [post]
func (h *RoutingHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req dto.TestRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	sample := &alert.Alert{
		Severity:    req.Sample.Severity,
		Title:       req.Sample.Title,
		Description: req.Sample.Description,
		Source:      req.Sample.Source,
		Labels:      req.Sample.Labels,
	}

	result := h.service.TestRule(req.Conditions, sample)
	utils.WriteSuccess(w, http.StatusOK, result)
}
