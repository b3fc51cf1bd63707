package routes

import (
	"github.com/gin-gonic/gin"

	c "github.com/beaconhq/beacon/statuspage/controllers"
)

func RegisterStatusRoutes(r *gin.Engine, sc *c.StatusController) {
	r.GET("/healthz", sc.Healthz)

	// Public, unauthenticated status pages
	r.GET("/status/:slug", sc.GetPage)
	r.GET("/status/:slug/components", sc.GetComponents)
	r.GET("/status/:slug/incidents", sc.GetIncidents)
}
