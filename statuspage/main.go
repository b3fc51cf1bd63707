package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/repository/postgres"
	"github.com/beaconhq/beacon/statuspage/controllers"
	"github.com/beaconhq/beacon/statuspage/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	sc := controllers.NewStatusController(
		postgres.NewStatusPageRepository(db),
		postgres.NewServiceRepository(db),
		postgres.NewIncidentRepository(db),
	)

	r := gin.Default()
	routes.RegisterStatusRoutes(r, sc)

	addr := os.Getenv("STATUS_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	log.Printf("Status page server running on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
