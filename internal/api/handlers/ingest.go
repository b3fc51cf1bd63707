package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/domain/alert"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// IngestHandler receives alert events from monitoring systems. It is the
// only write surface exposed without authentication; the routing key in the
// URL is the credential.
type IngestHandler struct {
	service   alert.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(service alert.Service, log *logger.Logger, val *validator.Validator) *IngestHandler {
	return &IngestHandler{service: service, logger: log, validator: val}
}

// Ingest accepts an alert event for the integration behind a routing key
// @Summary Ingest alert event
// @Description Accept an alert event, deduplicate it, run routing rules and open an incident unless suppressed
// @Tags Ingest
// @Accept json
// @Produce json
// @Param routingKey path string true "Integration routing key"
// @Param request body dto.IngestEventRequest true "Alert event"
// @Success 202 {object} dto.IngestResultDTO "Event accepted"
// @Failure 400 {object} utils.ErrorResponse "Invalid event"
// @Failure 404 {object} utils.ErrorResponse "Unknown routing key"
// @Failure 429 {object} utils.ErrorResponse "Rate limited"
// @Router /ingest/{routingKey} [post]
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	routingKey := chi.URLParam(r, "routingKey")

	var req dto.IngestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	ev := &alert.Event{
		Severity:    req.Severity,
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Labels:      req.Labels,
		Fingerprint: req.Fingerprint,
	}

	result, err := h.service.Ingest(r.Context(), routingKey, ev)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to ingest event")
		return
	}

	utils.WriteSuccess(w, http.StatusAccepted, dto.IngestResultDTO{
		Alert:        dto.NewAlertDTO(result.Alert),
		Deduplicated: result.Deduplicated,
		Suppressed:   result.Suppressed,
		RuleMatched:  result.RuleMatched,
	})
}
