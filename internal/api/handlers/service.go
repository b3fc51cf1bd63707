package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// ServiceHandler handles monitored service requests
type ServiceHandler struct {
	manager   service.Manager
	logger    *logger.Logger
	validator *validator.Validator
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(manager service.Manager, log *logger.Logger, val *validator.Validator) *ServiceHandler {
	return &ServiceHandler{manager: manager, logger: log, validator: val}
}

func newServiceDTO(s *service.Service) dto.ServiceDTO {
	return dto.ServiceDTO{
		ID: s.ID, TeamID: s.TeamID, Name: s.Name, Description: s.Description,
		Status: s.Status, CreatedAt: s.CreatedAt,
	}
}

// List returns services with pagination and filtering
// @Summary List services
// @Description Get a paginated list of monitored services
// @Tags Services
// @Produce json
// @Param team_id query int false "Filter by team ID"
// @Param status query string false "Filter by operational status"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.ServiceDTO} "List of services"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /services [get]
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	teamID, _ := strconv.ParseInt(r.URL.Query().Get("team_id"), 10, 64)

	filter := service.Filter{TeamID: teamID, Status: r.URL.Query().Get("status")}

	services, total, err := h.manager.List(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list services")
		return
	}

	dtos := make([]dto.ServiceDTO, len(services))
	for i, s := range services {
		dtos[i] = newServiceDTO(s)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single service by ID
// @Summary Get service by ID
// @Description Get a monitored service by ID
// @Tags Services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} dto.ServiceDTO "Service details"
// @Failure 404 {object} utils.ErrorResponse "Service not found"
// @Security BearerAuth
// @Router /services/{id} [get]
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s, err := h.manager.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get service")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, newServiceDTO(s))
}

// Create creates a new service
// @Summary Create service
// @Description Create a new monitored service for a team
// @Tags Services
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Service details"
// @Success 201 {object} map[string]int64 "Service created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Security BearerAuth
// @Router /services [post]
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	s := &service.Service{TeamID: req.TeamID, Name: req.Name, Description: req.Description}
	id, err := h.manager.Create(r.Context(), s)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to create service")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, map[string]int64{"id": id})
}

// Update updates a service
// @Summary Update service
// @Description Update a service; omitted fields are left unchanged
// @Tags Services
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Fields to update"
// @Success 200 {object} utils.SuccessResponse "Service updated"
// @Failure 400 {object} utils.ErrorResponse "Invalid status"
// @Failure 404 {object} utils.ErrorResponse "Service not found"
// @Security BearerAuth
// @Router /services/{id} [put]
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var req dto.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	if req.Status != nil {
		if err := h.manager.UpdateStatus(r.Context(), id, *req.Status); err != nil {
			utils.WriteAppError(w, err, "Failed to update service status")
			return
		}
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := h.manager.Update(r.Context(), id, updates); err != nil {
			utils.WriteAppError(w, err, "Failed to update service")
			return
		}
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Service updated successfully", nil)
}

// Delete deletes a service
// @Summary Delete service
// @Description Delete a service by ID
// @Tags Services
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} utils.SuccessResponse "Service deleted"
// @Failure 404 {object} utils.ErrorResponse "Service not found"
// @Security BearerAuth
// @Router /services/{id} [delete]
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.manager.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete service")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Service deleted successfully", nil)
}
