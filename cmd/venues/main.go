package main

import (
	"venuebook/internal/venues/handler"
	"venuebook/internal/venues/repository"
	"venuebook/internal/venues/service"
	"venuebook/pkg/app"
	"venuebook/pkg/config"
)

const ServiceName = "venues"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	venueService := service.NewVenueService(repository.NewMongoVenueRepository(cfg), cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewVenueHandler(venueService, cfg.Log))
	serverApp.Run()
}
