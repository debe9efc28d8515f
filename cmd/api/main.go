package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/reservations-api/internal/config"
	"github.com/reservations-api/internal/infrastructure/dynamo"
	"github.com/reservations-api/internal/infrastructure/redisstore"
	snsinfra "github.com/reservations-api/internal/infrastructure/sns"
	"github.com/reservations-api/internal/infrastructure/whatsapp"
	transporthttp "github.com/reservations-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Redis holds the per-phone verification state.
	redisClient, err := redisstore.NewClient(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	// Messaging channel: WhatsApp templates, SNS SMS as fallback.
	var notifier transporthttp.Notifier
	if wa, werr := whatsapp.NewClient(cfg); werr == nil {
		notifier = wa
	} else {
		log.Printf("WARN: WhatsApp client not available (%v), falling back to SNS SMS", werr)
		sender, serr := snsinfra.NewSender(cfg)
		if serr != nil {
			log.Fatalf("no messaging channel available: %v", serr)
		}
		notifier = sender
	}

	deps := &transporthttp.Deps{
		ReservationRepo: dynamo.NewReservationRepo(dynamoClient, cfg.DynamoTables.Reservations),
		LockRepo:        dynamo.NewLockRepo(dynamoClient, cfg.DynamoTables.ReservationLocks),
		Verifications:   redisstore.NewVerificationStore(redisClient),
		Notifier:        notifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
