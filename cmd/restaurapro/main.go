package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yansassi23/restaurapro/config"
	"github.com/yansassi23/restaurapro/internal/assets"
	"github.com/yansassi23/restaurapro/internal/events"
	handler "github.com/yansassi23/restaurapro/internal/handler/http"
	"github.com/yansassi23/restaurapro/internal/logger"
	"github.com/yansassi23/restaurapro/internal/repository"
	"github.com/yansassi23/restaurapro/internal/repository/postgres"
	"github.com/yansassi23/restaurapro/internal/service"
	"github.com/yansassi23/restaurapro/internal/worker"
	"go.uber.org/zap"
)

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// asset store client
	assetClient := assets.NewClient(cfg.AssetStoreAddr, cfg.AssetBucket)

	// payment events producer, optional
	var publisher service.EventPublisher
	if cfg.KafkaBroker != "" {
		producer := events.NewProducer([]string{cfg.KafkaBroker}, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	}

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)

	// order
	orderService := service.NewOrderService(orderRepo, assetClient)
	orderHandler := handler.NewOrderHandler(orderService)

	// webhook
	webhookService := service.NewWebhookService(orderRepo, publisher)
	webhookHandler := handler.NewWebhookHandler(webhookService)

	// plans
	planHandler := handler.NewPlanHandler()

	// repair worker
	repairService := service.NewRepairService(orderRepo, assetClient)
	reconciler := worker.NewReconciler(repairService, cfg.WorkerInterval, cfg.PendingOrderTTL)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger.Log))

	router.Get("/api/plans", planHandler.ListPlans())
	router.Post("/api/orders", orderHandler.SubmitOrder())
	router.Get("/api/orders/{number}/payment", orderHandler.GetPaymentStatus())

	// the webhook is reachable without any customer session, its caller is
	// the payment provider's infrastructure
	router.Route("/api/payment/webhook", func(r chi.Router) {
		r.Use(handler.CORS)
		r.Use(handler.WebhookAuth(cfg.WebhookSecret))
		r.HandleFunc("/", webhookHandler.HandleWebhook())
	})

	// routes that require operator authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.OperatorAuth(cfg.OperatorTokenHash))
		group.Get("/api/orders/{number}", orderHandler.GetOrder())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
