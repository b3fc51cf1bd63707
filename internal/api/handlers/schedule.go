package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/schedule"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// ScheduleHandler handles on-call schedule requests
type ScheduleHandler struct {
	service   schedule.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service schedule.Service, log *logger.Logger, val *validator.Validator) *ScheduleHandler {
	return &ScheduleHandler{service: service, logger: log, validator: val}
}

func newScheduleDTO(s *schedule.Schedule) dto.ScheduleDTO {
	return dto.ScheduleDTO{
		ID: s.ID, TeamID: s.TeamID, Name: s.Name, Timezone: s.Timezone,
		Layers: s.Layers, CreatedAt: s.CreatedAt,
	}
}

// List returns schedules with pagination
// @Summary List schedules
// @Description Get a paginated list of on-call schedules
// @Tags Schedules
// @Produce json
// @Param team_id query int false "Filter by team ID"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.ScheduleDTO} "List of schedules"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /schedules [get]
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)

	schedules, total, err := h.service.List(r.Context(), schedule.Filter{TeamID: teamID}, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list schedules")
		return
	}

	dtos := make([]dto.ScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = newScheduleDTO(s)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single schedule by ID
// @Summary Get schedule
// @Description Get an on-call schedule by ID
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} dto.ScheduleDTO "Schedule details"
// @Failure 404 {object} utils.ErrorResponse "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get schedule")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newScheduleDTO(s))
}

// Create creates a new schedule
// @Summary Create schedule
// @Description Create a new on-call schedule; the timezone defaults to UTC
// @Tags Schedules
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleRequest true "Schedule definition"
// @Success 201 {object} map[string]int64 "Schedule created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or unknown timezone"
// @Security BearerAuth
// @Router /schedules [post]
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	s := &schedule.Schedule{
		TeamID: req.TeamID, Name: req.Name, Timezone: req.Timezone, Layers: req.Layers,
	}

	id, err := h.service.Create(r.Context(), s)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create schedule")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Delete deletes a schedule
// @Summary Delete schedule
// @Description Delete a schedule by ID
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} utils.SuccessResponse "Schedule deleted"
// @Failure 404 {object} utils.ErrorResponse "Schedule not found"
// @Security BearerAuth
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete schedule")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Schedule deleted successfully", nil)
}
