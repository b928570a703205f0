package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/trainticket/api"
	"github.com/Domenick1991/trainticket/config"
	healthapi "github.com/Domenick1991/trainticket/internal/api/health_service_api"
	"github.com/Domenick1991/trainticket/internal/bootstrap"
	"github.com/Domenick1991/trainticket/internal/cache"
	"github.com/Domenick1991/trainticket/internal/kafka"
	"github.com/Domenick1991/trainticket/internal/repository"
	"github.com/Domenick1991/trainticket/internal/service/compensation"
	"github.com/Domenick1991/trainticket/internal/service/reservation"
	"github.com/Domenick1991/trainticket/internal/tracing"
	"github.com/Domenick1991/trainticket/internal/upstream"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("init tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	stateStore := cache.NewRedisStateStore(cfg.Redis)
	defer stateStore.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	httpClient, err := upstream.NewHTTPClient(cfg.TLS)
	if err != nil {
		log.Fatalf("build upstream transport: %v", err)
	}
	clients := upstream.New(cfg.Upstreams, httpClient, cfg.Reservation.StepTimeout())

	releases := compensation.NewService(
		repository.NewSeatReleaseRepository(pool),
		clients.Seat,
		producer,
		cfg.Kafka.SeatReleaseTopic,
	)

	reservationService := reservation.NewService(
		reservation.Dependencies{
			Security:  clients.Security,
			Contacts:  clients.Contacts,
			Travel:    clients.Travel,
			Stations:  clients.Station,
			Seats:     clients.Seat,
			Orders:    clients.Order,
			Assurance: clients.Assurance,
			Food:      clients.Food,
			Consign:   clients.Consign,
			Users:     clients.User,
			Notifier:  clients.Notification,
		},
		reservation.WithTracker(stateStore),
		reservation.WithJournal(repository.NewAttemptRepository(pool)),
		reservation.WithReleaseQueue(releases),
		reservation.WithEvents(producer, cfg.Kafka.ReservationEventsTopic),
		reservation.WithCompensationTimeout(cfg.Reservation.CompensationTimeout()),
		reservation.WithNotificationTimeout(cfg.Reservation.NotificationTimeout()),
	)
	defer reservationService.Wait()

	probes := map[string]healthapi.Probe{
		"postgres": pool.Ping,
		"redis":    stateStore.Ping,
		"kafka":    producer.CheckConnection,
	}

	handler := api.NewReservationHandler(reservationService, cfg.Reservation.RequestTimeout())
	if err := bootstrap.Run(ctx, cfg, handler, probes); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
