package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Objecteee/ticket-on-line/config"
	"github.com/Objecteee/ticket-on-line/internal/auth"
	"github.com/Objecteee/ticket-on-line/internal/database"
	"github.com/Objecteee/ticket-on-line/internal/handler"
	"github.com/Objecteee/ticket-on-line/internal/queue"
	"github.com/Objecteee/ticket-on-line/internal/repository"
	"github.com/Objecteee/ticket-on-line/internal/service"
	"github.com/Objecteee/ticket-on-line/internal/worker"
	"github.com/Objecteee/ticket-on-line/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	defer func() { _ = logger.L.Sync() }()
	log := logger.WithComponent("server")

	cfg := config.LoadConfig()
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("Failed to ensure schema", zap.Error(err))
	}

	reconciliationQueue, rdb, err := newReconciliationQueue(cfg)
	if err != nil {
		log.Fatal("Failed to initialize reconciliation queue", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	trainRepo := repository.NewTrainRepository(pool)
	stopRepo := repository.NewTrainStopRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	saleRepo := repository.NewTicketSaleRepository(pool)
	refundRepo := repository.NewRefundRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	inventoryService := service.NewInventoryService(pool, inventoryRepo, trainRepo, orderRepo)
	orderService := service.NewOrderService(pool, orderRepo, trainRepo, saleRepo, refundRepo, passengerRepo,
		inventoryService, reconciliationQueue, cfg.Order.DefaultRefundFeeRate)
	reconciliationService := service.NewReconciliationService(inventoryService, saleRepo)
	searchService := service.NewTicketSearchService(trainRepo, stopRepo, inventoryService)
	saleService := service.NewTicketSaleService(saleRepo, trainRepo, userRepo, orderRepo, refundRepo)
	trainService := service.NewTrainService(pool, trainRepo, stopRepo)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	passengerService := service.NewPassengerService(passengerRepo)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatal("Failed to ensure admin account", zap.Error(err))
	}

	reconciliationWorker := worker.NewReconciliationWorker(reconciliationService, reconciliationQueue, cfg.Queue.ClaimMinIdleTime)
	if err := reconciliationWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start reconciliation worker", zap.Error(err))
	}

	router := handler.NewRouter(handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Ticket:     handler.NewTicketHandler(searchService),
		Order:      handler.NewOrderHandler(orderService),
		Train:      handler.NewTrainHandler(trainService, inventoryService),
		TicketSale: handler.NewTicketSaleHandler(saleService),
		User:       handler.NewUserHandler(userService),
		Passenger:  handler.NewPassengerHandler(passengerService),
	}, tokens)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr), zap.String("queue_driver", cfg.Queue.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	reconciliationWorker.Wait()
	log.Info("Server exited")
}

// newReconciliationQueue 依設定選擇 Redis Stream 或記憶體佇列；記憶體版時 client 為 nil
func newReconciliationQueue(cfg *config.Config) (queue.ReconciliationQueue, *redis.Client, error) {
	if cfg.Queue.Driver == "memory" {
		return queue.NewMemoryReconciliationQueue(cfg.Queue.BufferSize), nil, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, err
	}

	q, err := queue.NewRedisStreamReconciliationQueue(rdb, cfg.Queue.ConsumerID, &queue.RedisStreamQueueConfig{
		ClaimMinIdleTime:   cfg.Queue.ClaimMinIdleTime,
		MaxRetryCount:      cfg.Queue.MaxRetryCount,
		ReadGroupBlockTime: cfg.Queue.ReadGroupBlockTime,
		StreamMaxLen:       cfg.Queue.StreamMaxLen,
	})
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return q, rdb, nil
}
