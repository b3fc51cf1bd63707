package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/team"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// TeamHandler handles team management requests
type TeamHandler struct {
	service   team.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(service team.Service, log *logger.Logger, val *validator.Validator) *TeamHandler {
	return &TeamHandler{service: service, logger: log, validator: val}
}

func newTeamDTO(t *team.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID: t.ID, Name: t.Name, Slug: t.Slug, Description: t.Description, CreatedAt: t.CreatedAt,
	}
}

// List returns teams with pagination
// @Summary List teams
// @Description Get a paginated list of teams
// @Tags Teams
// @Produce json
// @Param name query string false "Filter by name"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.TeamDTO} "List of teams"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	filter := team.Filter{Name: r.URL.Query().Get("name")}

	teams, total, err := h.service.List(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list teams")
		return
	}

	dtos := make([]dto.TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = newTeamDTO(t)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single team by ID
// @Summary Get team by ID
// @Description Get a team by ID
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} dto.TeamDTO "Team details"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get team")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newTeamDTO(t))
}

// Create creates a new team
// @Summary Create team
// @Description Create a new team; the slug is derived from the name when omitted
// @Tags Teams
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "Team details"
// @Success 201 {object} map[string]int64 "Team created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 409 {object} utils.ErrorResponse "Slug already taken"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	t := &team.Team{Name: req.Name, Slug: req.Slug, Description: req.Description}
	id, err := h.service.Create(r.Context(), t)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create team")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update updates a team
// @Summary Update team
// @Description Update a team; omitted fields are left unchanged
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body dto.UpdateTeamRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse "Team updated"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [put]
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if err := h.service.Update(r.Context(), id, updates); err != nil {
		utils.WriteAppError(w, err, "Failed to update team")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Team updated successfully", nil)
}

// Delete deletes a team
// @Summary Delete team
// @Description Delete a team by ID
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} utils.SuccessResponse "Team deleted"
// @Failure 404 {object} utils.ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete team")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Team deleted successfully", nil)
}
