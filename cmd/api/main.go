package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/api"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/auth"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/config"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/outbox"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/persistence/memory"
	persistence "github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/persistence/postgres"
	httptransport "github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var userRepo domain.UserRepository
	var trainingRepo domain.TrainingRepository
	var dispatcher *outbox.Dispatcher

	switch cfg.StorageDriver {
	case "memory":
		userRepo = memory.NewUserRepository()
		trainingRepo = memory.NewTrainingRepository()
	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()

		userRepo = persistence.NewUserRepository(pool)
		trainingRepo = persistence.NewTrainingRepository(pool)

		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL)
		dispatcher = outbox.NewDispatcher(pool, producer, registry, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
		go dispatcher.Start(ctx)
	}

	users := domain.NewUserService(userRepo)
	trainings := domain.NewTrainingService(trainingRepo, users)
	remover := domain.NewUserRemover(users, trainings)

	handler := api.NewHandler(users, trainings, remover)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
		func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, authMiddleware.Wrap(logger(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitness-tracker listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}
