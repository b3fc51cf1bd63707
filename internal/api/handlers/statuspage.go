package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/statuspage"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// StatusPageHandler handles status page management requests. Public
// rendering of published pages happens in the status server, not here.
type StatusPageHandler struct {
	service   statuspage.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewStatusPageHandler creates a new status page handler
func NewStatusPageHandler(service statuspage.Service, log *logger.Logger, val *validator.Validator) *StatusPageHandler {
	return &StatusPageHandler{service: service, logger: log, validator: val}
}

func newPageDTO(p *statuspage.Page) dto.PageDTO {
	return dto.PageDTO{
		ID: p.ID, TeamID: p.TeamID, Name: p.Name, Slug: p.Slug,
		Published: p.Published, ServiceIDs: p.ServiceIDs, CreatedAt: p.CreatedAt,
	}
}

// List returns status pages with pagination
// @Summary List status pages
// @Description Get a paginated list of status page definitions
// @Tags StatusPages
// @Produce json
// @Param team_id query int false "Filter by team ID"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.PageDTO} "List of pages"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /status-pages [get]
func (h *StatusPageHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)

	pages, total, err := h.service.List(r.Context(), statuspage.Filter{TeamID: teamID}, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list pages")
		return
	}

	dtos := make([]dto.PageDTO, len(pages))
	for i, pg := range pages {
		dtos[i] = newPageDTO(pg)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single page by ID
// @Summary Get status page
// @Description Get a status page definition by ID
// @Tags StatusPages
// @Produce json
// @Param id path int true "Page ID"
// @Success 200 {object} dto.PageDTO "Page details"
// @Failure 404 {object} utils.ErrorResponse "Page not found"
// @Security BearerAuth
// @Router /status-pages/{id} [get]
func (h *StatusPageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	pg, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get page")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newPageDTO(pg))
}

// Create creates a new status page
// @Summary Create status page
// @Description Create a status page definition; pages start unpublished
// @Tags StatusPages
// @Accept json
// @Produce json
// @Param request body dto.CreatePageRequest true "Page definition"
// @Success 201 {object} map[string]int64 "Page created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 409 {object} utils.ErrorResponse "Slug already taken"
// @Security BearerAuth
// @Router /status-pages [post]
func (h *StatusPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	pg := &statuspage.Page{
		TeamID: req.TeamID, Name: req.Name, Slug: req.Slug, ServiceIDs: req.ServiceIDs,
	}

	id, err := h.service.Create(r.Context(), pg)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create page")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Publish toggles a page's published flag
// @Summary Publish status page
// @Description Publish or unpublish a status page
// @Tags StatusPages
// @Accept json
// @Produce json
// @Param id path int true "Page ID"
// @Param request body dto.PublishPageRequest true "Published flag"
// @Success 200 {object} utils.SuccessResponse "Page updated"
// @Failure 404 {object} utils.ErrorResponse "Page not found"
// @Security BearerAuth
// @Router /status-pages/{id}/publish [post]
func (h *StatusPageHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.PublishPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if err := h.service.Publish(r.Context(), id, req.Published); err != nil {
		utils.WriteAppError(w, err, "Failed to publish page")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Page updated successfully", nil)
}

// Delete deletes a status page
// @Summary Delete status page
// @Description Delete a status page definition by ID
// @Tags StatusPages
// @Produce json
// @Param id path int true "Page ID"
// @Success 200 {object} utils.SuccessResponse "Page deleted"
// @Failure 404 {object} utils.ErrorResponse "Page not found"
// @Security BearerAuth
// @Router /status-pages/{id} [delete]
func (h *StatusPageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete page")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Page deleted successfully", nil)
}
