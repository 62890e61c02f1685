package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/tradeweave/wallet-ledger/pkg/events"
	"github.com/tradeweave/wallet-ledger/pkg/handlers"
	"github.com/tradeweave/wallet-ledger/pkg/middleware"
	"github.com/tradeweave/wallet-ledger/pkg/payout"
	"github.com/tradeweave/wallet-ledger/pkg/scheduler"
	dydbstore "github.com/tradeweave/wallet-ledger/pkg/storage/dynamodb"
	"github.com/tradeweave/wallet-ledger/pkg/tiers"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	tables, err := dydbstore.TablesFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	store := dydbstore.New(dynamodb.NewFromConfig(cfg), tables)

	// SQS Client and Scheduler
	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler := scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), sqsQueueURL)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}
	webhookSecret := os.Getenv("WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("WEBHOOK_SECRET environment variable not set")
	}

	// Tier source: accounts service when configured, static default
	// otherwise.
	var tierSource tiers.Source = &tiers.StaticSource{}
	if accountsURL := os.Getenv("ACCOUNTS_SERVICE_URL"); accountsURL != "" {
		tierSource = tiers.NewHTTPSource(accountsURL, os.Getenv("ACCOUNTS_SERVICE_API_KEY"))
	}

	// Payout gateway: real disbursement API when configured, no-op
	// otherwise.
	var gateway payout.Gateway = payout.NoOpGateway{}
	if gatewayURL := os.Getenv("PAYOUT_GATEWAY_URL"); gatewayURL != "" {
		gateway = payout.NewHTTPGateway(gatewayURL, os.Getenv("PAYOUT_GATEWAY_API_KEY"))
	}

	// Event publisher: API Gateway fan-out when configured, no-op otherwise.
	var publisher events.Publisher = &events.NoOpPublisher{}
	if wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); wsEndpoint != "" {
		publisher, err = events.NewPublisher(store, store, wsEndpoint)
		if err != nil {
			log.Fatalf("failed to create event publisher: %v", err)
		}
	}

	router := handlers.NewRouter(handlers.Config{
		Store:         store,
		Tiers:         tierSource,
		Gateway:       gateway,
		Scheduler:     sqsScheduler,
		Publisher:     publisher,
		Verifier:      middleware.NewCapabilityVerifier(jwtSecret),
		WebhookSecret: webhookSecret,
		Logger:        logger,
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
