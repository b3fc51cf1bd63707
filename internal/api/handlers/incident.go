package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
)

// IncidentHandler handles incident lifecycle requests
type IncidentHandler struct {
	service incident.Service
	logger  *logger.Logger
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(service incident.Service, log *logger.Logger) *IncidentHandler {
	return &IncidentHandler{service: service, logger: log}
}

func newIncidentDTO(in *incident.Incident) dto.IncidentDTO {
	return dto.IncidentDTO{
		ID:                 in.ID,
		TeamID:             in.TeamID,
		ServiceID:          in.ServiceID,
		AlertID:            in.AlertID,
		EscalationPolicyID: in.EscalationPolicyID,
		Title:              in.Title,
		Severity:           in.Severity,
		Status:             in.Status,
		Summary:            in.Summary,
		CreatedAt:          in.CreatedAt,
		AcknowledgedAt:     in.AcknowledgedAt,
		ResolvedAt:         in.ResolvedAt,
	}
}

// List returns incidents with pagination and filtering
// @Summary List incidents
// @Description Get a paginated list of incidents with optional filtering
// @Tags Incidents
// @Produce json
// @Param team_id query int false "Filter by team ID"
// @Param service_id query int false "Filter by service ID"
// @Param status query string false "Filter by status"
// @Param severity query string false "Filter by severity"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.IncidentDTO} "List of incidents"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /incidents [get]
func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	serviceID, _ := strconv.ParseInt(r.URL.Query().Get("service_id"), 10, 64)

	filter := incident.Filter{
		TeamID:    teamID,
		ServiceID: serviceID,
		Status:    r.URL.Query().Get("status"),
		Severity:  r.URL.Query().Get("severity"),
	}

	incidents, total, err := h.service.List(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list incidents")
		return
	}

	dtos := make([]dto.IncidentDTO, len(incidents))
	for i, in := range incidents {
		dtos[i] = newIncidentDTO(in)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single incident by ID
// @Summary Get incident by ID
// @Description Get detailed information about an incident
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} dto.IncidentDTO "Incident details"
// @Failure 404 {object} utils.ErrorResponse "Incident not found"
// @Security BearerAuth
// @Router /incidents/{id} [get]
func (h *IncidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	in, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get incident")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newIncidentDTO(in))
}

// Acknowledge moves a triggered incident to acknowledged
// @Summary Acknowledge incident
// @Description Acknowledge a triggered incident; acknowledging twice is a no-op
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} utils.SuccessResponse "Incident acknowledged"
// @Failure 404 {object} utils.ErrorResponse "Incident not found"
// @Failure 409 {object} utils.ErrorResponse "Incident already resolved"
// @Security BearerAuth
// @Router /incidents/{id}/acknowledge [post]
func (h *IncidentHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Acknowledge(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to acknowledge incident")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Incident acknowledged", nil)
}

// Resolve moves an incident to resolved
// @Summary Resolve incident
// @Description Resolve an incident; resolving twice is a no-op
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} utils.SuccessResponse "Incident resolved"
// @Failure 404 {object} utils.ErrorResponse "Incident not found"
// @Security BearerAuth
// @Router /incidents/{id}/resolve [post]
func (h *IncidentHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Resolve(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to resolve incident")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Incident resolved", nil)
}

// GetSummary returns incident counts by status for a team
// @Summary Get incident summary
// @Description Get incident counts grouped by status for a team
// @Tags Incidents
// @Produce json
// @Param team_id query int true "Team ID"
// @Success 200 {object} map[string]int "Counts by status"
// @Failure 400 {object} utils.ErrorResponse "Missing team ID"
// @Security BearerAuth
// @Router /incidents/summary [get]
func (h *IncidentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)
	if teamID == 0 {
		utils.WriteError(w, errors.BadRequest("team_id is required"))
		return
	}

	summary, err := h.service.GetSummary(r.Context(), teamID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get summary")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}

// GenerateSummary drafts an incident summary with the AI integration
// @Summary Generate incident summary
// @Description Draft a short incident summary; requires the OpenAI integration to be configured
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} map[string]string "Generated summary"
// @Failure 400 {object} utils.ErrorResponse "Summary generation not configured"
// @Failure 404 {object} utils.ErrorResponse "Incident not found"
// @Security BearerAuth
// @Router /incidents/{id}/summary [post]
func (h *IncidentHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	summary, err := h.service.GenerateSummary(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to generate summary")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, map[string]string{"summary": summary})
}

// Delete deletes an incident
// @Summary Delete incident
// @Description Delete an incident by ID
// @Tags Incidents
// @Produce json
// @Param id path int true "Incident ID"
// @Success 200 {object} utils.SuccessResponse "Incident deleted"
// @Failure 404 {object} utils.ErrorResponse "Incident not found"
// @Security BearerAuth
// @Router /incidents/{id} [delete]
func (h *IncidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete incident")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Incident deleted successfully", nil)
}
