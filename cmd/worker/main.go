package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/trainticket/config"
	"github.com/Domenick1991/trainticket/internal/kafka"
	"github.com/Domenick1991/trainticket/internal/repository"
	"github.com/Domenick1991/trainticket/internal/service/compensation"
	"github.com/Domenick1991/trainticket/internal/upstream"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "worker",
		Short:        "background jobs of the preserve service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config.yaml")

	rootCmd.AddCommand(
		runCommand(&cfgPath),
		migrateCommand(&cfgPath),
	)
	return rootCmd
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func migrateCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if err := repository.Migrate(cfg.Database.URL(repository.MigrationScheme)); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func runCommand(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "consume seat release requests and sweep the release outbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	httpClient, err := upstream.NewHTTPClient(cfg.TLS)
	if err != nil {
		return err
	}
	clients := upstream.New(cfg.Upstreams, httpClient, cfg.Reservation.StepTimeout())

	releases := compensation.NewService(
		repository.NewSeatReleaseRepository(pool),
		clients.Seat,
		nil,
		"",
		compensation.WithLease(cfg.Worker.ReleaseLease()),
		compensation.WithMaxAttempts(cfg.Worker.ReleaseMaxAttempts),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SeatReleaseTopic)
	defer consumer.Close()

	go func() {
		err := consumer.Consume(ctx, kafka.JSONHandler(func(ctx context.Context, event kafka.SeatReleaseEvent) error {
			if err := releases.HandleEvent(ctx, event); err != nil {
				log.Printf("seat release left for sweep: outbox=%d err=%v", event.OutboxID, err)
			}
			return nil
		}))
		if err != nil && ctx.Err() == nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ReleaseSweepSeconds) * time.Second)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			released, err := releases.Sweep(ctx, cfg.Worker.ReleaseBatchSize)
			if err != nil {
				log.Printf("sweep seat releases error: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("released %d seats", released)
			}
		case <-ctx.Done():
			log.Printf("shutting down worker")
			return nil
		}
	}
}
