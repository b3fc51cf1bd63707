package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
)

// AlertHandler handles alert read and lifecycle requests
type AlertHandler struct {
	service alert.Service
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service alert.Service, log *logger.Logger) *AlertHandler {
	return &AlertHandler{service: service, logger: log}
}

// List returns alerts with pagination and filtering
// @Summary List alerts
// @Description Get a paginated list of alerts with optional filtering
// @Tags Alerts
// @Produce json
// @Param service_id query int false "Filter by service ID"
// @Param severity query string false "Filter by severity"
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.AlertDTO} "List of alerts"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	serviceID, _ := strconv.ParseInt(r.URL.Query().Get("service_id"), 10, 64)

	filter := alert.Filter{
		ServiceID: serviceID,
		Severity:  r.URL.Query().Get("severity"),
		Status:    r.URL.Query().Get("status"),
		Source:    r.URL.Query().Get("source"),
	}

	alerts, total, err := h.service.List(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to list alerts")
		return
	}

	dtos := make([]dto.AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = dto.NewAlertDTO(a)
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, p.Page, p.PageSize, total))
}

// Get returns a single alert by ID
// @Summary Get alert by ID
// @Description Get detailed information about an alert
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} dto.AlertDTO "Alert details"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Security BearerAuth
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewAlertDTO(a))
}

// Resolve marks an alert resolved
// @Summary Resolve alert
// @Description Mark an alert as resolved; resolving an already resolved alert is a no-op
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Alert resolved"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Security BearerAuth
// @Router /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Resolve(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to resolve alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert resolved successfully", nil)
}

// Delete deletes an alert
// @Summary Delete alert
// @Description Delete an alert by ID
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Alert deleted"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Security BearerAuth
// @Router /alerts/{id} [delete]
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	if err := h.service.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert deleted successfully", nil)
}
