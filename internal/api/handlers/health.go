package handlers

import (
	"database/sql"
	"net/http"

	"github.com/beaconhq/beacon/internal/pkg/utils"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      *sql.DB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Healthz returns liveness status
// @Summary Liveness probe
// @Description Always returns ok while the process is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service is alive"
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Readyz returns readiness status
// @Summary Readiness probe
// @Description Returns ok when the database is reachable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service is ready"
// @Failure 503 {object} utils.ErrorResponse "Database unreachable"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "NOT_READY", "Database unreachable")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
