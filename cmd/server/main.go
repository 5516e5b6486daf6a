package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/draymaster/tripplanner/internal/api/handlers"
	"github.com/draymaster/tripplanner/internal/api/middleware"
	"github.com/draymaster/tripplanner/internal/config"
	"github.com/draymaster/tripplanner/internal/database"
	"github.com/draymaster/tripplanner/internal/events"
	"github.com/draymaster/tripplanner/internal/geocode"
	"github.com/draymaster/tripplanner/internal/logger"
	"github.com/draymaster/tripplanner/internal/planner"
	"github.com/draymaster/tripplanner/internal/repository"
	"github.com/draymaster/tripplanner/internal/routing"
)

const serviceName = "trip-planner"

func main() {
	cfg := config.Load()

	log, err := logger.New(serviceName, cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting trip-planner")

	ctx := context.Background()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("connected to database")

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	defer producer.Close()

	geocoder := geocode.NewNominatimClient(geocode.Config{
		BaseURL:     cfg.Geocoder.BaseURL,
		UserAgent:   cfg.Geocoder.UserAgent,
		MinInterval: time.Duration(cfg.Geocoder.MinIntervalMs) * time.Millisecond,
		Timeout:     time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second,
	}, log)

	router := routing.NewORSClient(routing.Config{
		BaseURL: cfg.Router.BaseURL,
		APIKey:  cfg.Router.APIKey,
		Timeout: time.Duration(cfg.Router.TimeoutSecs) * time.Second,
	}, log)

	tripRepo := repository.NewPostgresTripPlanRepository(db.Pool)

	rules, err := config.LoadRuleOverrides(os.Getenv("RULES_CONFIG_PATH"))
	if err != nil {
		log.Fatal("failed to load rule overrides", "error", err)
	}

	plannerSvc := planner.New(geocoder, router, log,
		planner.WithRepository(tripRepo),
		planner.WithEventPublisher(producer),
		planner.WithRules(rules),
	)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor(log)))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal("failed to listen on grpc port", "error", err, "port", cfg.Server.GRPCPort)
	}

	go func() {
		log.WithFields(map[string]interface{}{"port": cfg.Server.GRPCPort}).Infow("grpc server listening")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal("grpc server failed", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      buildRouter(plannerSvc, db, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{"port": cfg.Server.HTTPPort}).Infow("http server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("http server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down trip-planner")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Errorw("http server shutdown error")
	}

	log.Info("trip-planner stopped")
}

func buildRouter(svc *planner.Service, db *database.DB, log *logger.Logger) http.Handler {
	tripHandler := handlers.NewTripHandler(svc, log)
	healthHandler := handlers.NewHealthHandler(db)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(nil))

	r.GET("/ready", healthHandler.Ready)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)
		api.POST("/plan-trip", tripHandler.PlanTrip)
		api.GET("/trips/:id", tripHandler.GetTrip)
	}

	return r
}

func loggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		log.WithFields(map[string]interface{}{
			"method":      info.FullMethod,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Infow("grpc request")

		return resp, err
	}
}
