package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beaconhq/beacon/internal/domain/incident"
	"github.com/beaconhq/beacon/internal/domain/service"
	"github.com/beaconhq/beacon/internal/domain/statuspage"
	m "github.com/beaconhq/beacon/statuspage/models"
	u "github.com/beaconhq/beacon/statuspage/utils"
)

const recentIncidentLimit = 20

// StatusController renders published status pages from the platform store.
type StatusController struct {
	pages     statuspage.Repository
	services  service.Repository
	incidents incident.Repository
}

func NewStatusController(pages statuspage.Repository, services service.Repository, incidents incident.Repository) *StatusController {
	return &StatusController{pages: pages, services: services, incidents: incidents}
}

func (sc *StatusController) Healthz(c *gin.Context) {
	u.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// GetPage returns the full public view of a published page. Unpublished
// pages and unknown slugs are indistinguishable from the outside.
func (sc *StatusController) GetPage(c *gin.Context) {
	page, err := sc.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		u.Error(c, http.StatusNotFound, "page not found")
		return
	}

	components, err := sc.loadComponents(c, page)
	if err != nil {
		u.Error(c, http.StatusInternalServerError, "failed to load components")
		return
	}

	u.JSON(c, http.StatusOK, m.PublicPage{
		Name:          page.Name,
		Slug:          page.Slug,
		OverallStatus: overallStatus(components),
		Components:    components,
		UpdatedAt:     page.UpdatedAt,
	})
}

func (sc *StatusController) GetComponents(c *gin.Context) {
	page, err := sc.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		u.Error(c, http.StatusNotFound, "page not found")
		return
	}

	components, err := sc.loadComponents(c, page)
	if err != nil {
		u.Error(c, http.StatusInternalServerError, "failed to load components")
		return
	}

	u.JSON(c, http.StatusOK, components)
}

// GetIncidents returns recent incidents affecting the page's services.
func (sc *StatusController) GetIncidents(c *gin.Context) {
	page, err := sc.pages.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		u.Error(c, http.StatusNotFound, "page not found")
		return
	}

	published := make(map[int64]bool, len(page.ServiceIDs))
	for _, id := range page.ServiceIDs {
		published[id] = true
	}

	list, _, err := sc.incidents.List(c.Request.Context(), incident.Filter{TeamID: page.TeamID}, recentIncidentLimit, 0)
	if err != nil {
		u.Error(c, http.StatusInternalServerError, "failed to load incidents")
		return
	}

	out := make([]m.PublicIncident, 0, len(list))
	for _, inc := range list {
		if !published[inc.ServiceID] {
			continue
		}
		out = append(out, m.PublicIncident{
			Title:      inc.Title,
			Severity:   inc.Severity,
			Status:     inc.Status,
			StartedAt:  inc.CreatedAt,
			ResolvedAt: inc.ResolvedAt,
		})
	}

	u.JSON(c, http.StatusOK, out)
}

func (sc *StatusController) loadComponents(c *gin.Context, page *statuspage.Page) ([]m.Component, error) {
	components := make([]m.Component, 0, len(page.ServiceIDs))
	for _, id := range page.ServiceIDs {
		svc, err := sc.services.GetByID(c.Request.Context(), id)
		if err != nil {
			// A service deleted after publication drops off the page.
			continue
		}
		components = append(components, m.Component{
			Name:        svc.Name,
			Description: svc.Description,
			Status:      svc.Status,
		})
	}
	return components, nil
}

// statusRank orders operational statuses from healthy to broken.
var statusRank = map[string]int{
	service.StatusOperational:   0,
	service.StatusMaintenance:   1,
	service.StatusDegraded:      2,
	service.StatusPartialOutage: 3,
	service.StatusMajorOutage:   4,
}

func overallStatus(components []m.Component) string {
	worst := service.StatusOperational
	for _, comp := range components {
		if statusRank[comp.Status] > statusRank[worst] {
			worst = comp.Status
		}
	}
	return worst
}
