package main

import (
	"context"
	"time"

	bookinghandler "venuebook/internal/bookings/handler"
	bookingrepo "venuebook/internal/bookings/repository"
	"venuebook/internal/bookings/service"
	bookingvalidator "venuebook/internal/bookings/validator"
	"venuebook/internal/calendar"
	"venuebook/internal/sweeper"
	venuerepo "venuebook/internal/venues/repository"
	"venuebook/pkg/app"
	"venuebook/pkg/config"
	"venuebook/pkg/events"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	bookingService := initServices(cfg, publisher)

	// The sweep must share this process's service: its calendar index and
	// venue locks are the ones every other mutation goes through. A second
	// process with its own index would miss bookings created after it started.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweeper.New(bookingService, cfg.SweepInterval, cfg.Log).Run(sweepCtx)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(bookinghandler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	venueCatalog := venuerepo.NewMongoVenueRepository(cfg)
	validator := bookingvalidator.NewBookingValidator(
		venueCatalog,
		func() time.Time { return time.Now().UTC() },
		cfg.MaxBookingDuration,
	)
	repo := bookingrepo.NewMongoBookingRepository(cfg)
	index := calendar.NewIndex()

	bookingService := service.NewBookingService(cfg, repo, validator, venueCatalog, index, publisher, cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadTimeout)
	defer cancel()
	if err := bookingService.RebuildIndex(ctx); err != nil {
		cfg.Log.Fatal("Failed to rebuild calendar index", "error", err)
	}

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, logging booking events instead")
		return events.NewLogPublisher(cfg.Log)
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka publisher", "error", err)
	}
	return publisher
}
