package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/mzrn1122/SMD/pkg/bus"
	"github.com/mzrn1122/SMD/pkg/common"
	"github.com/mzrn1122/SMD/pkg/db"
	"github.com/mzrn1122/SMD/pkg/dispenser"
	smdGrpc "github.com/mzrn1122/SMD/pkg/grpc"
	smdHttp "github.com/mzrn1122/SMD/pkg/http"
	"github.com/mzrn1122/SMD/pkg/simulator"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := common.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbInstance := db.GetInstance(db.UseConfiguredDialector(cfg))

	eventBus := bus.New()
	defer eventBus.Close()

	core := (&dispenser.Dispenser{
		Db:           *dbInstance,
		Bus:          eventBus,
		OfflineAfter: cfg.OfflineAfter,
	}).WithDefaultServices()
	core.Attach(eventBus)

	limits := dispenser.Limits{Rate: rate.Limit(cfg.DefaultRate), Burst: cfg.DefaultBurst}

	if cfg.Simulation {
		var rnd simulator.Rand
		if cfg.SimSeed != 0 {
			rnd = simulator.NewSeededRand(cfg.SimSeed)
		}
		sim := simulator.New(eventBus, simulator.OptionsFromConfig(cfg), rnd, nil)
		sim.AttachScheduleAck(ctx, eventBus)
		go sim.Run(ctx)

		logger.Info("Simulation enabled",
			zap.Strings("devices", cfg.SimDevices),
			zap.Uint64("seed", cfg.SimSeed))
	}

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		dispenserServer := smdGrpc.DispenserServer{
			Dispenser:        core,
			RateLimiterStore: dispenser.NewRateLimiterStore(limits),
		}
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(dispenserServer.CreateRateLimitInterceptor(smdGrpc.LimitedMethods)))
		smdGrpc.RegisterDispenserServiceServer(grpcServer, &dispenserServer)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}

		go func() {
			logger.Info("Starting gRPC server on "+cfg.GrpcHostPort, zap.Reflect("default_limiter", limits))
			if err := grpcServer.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &smdHttp.RestfulServer{
		Server:           gin.Default(),
		Dispenser:        core,
		RateLimiterStore: dispenser.NewRateLimiterStore(limits),
		Stream:           smdHttp.NewStream(eventBus),
	}
	rs.Setup()

	httpServer := &http.Server{
		Addr:    cfg.HttpHostPort,
		Handler: rs.Server,
	}

	go func() {
		logger.Info("Starting HTTP server on "+cfg.HttpHostPort, zap.Reflect("default_limiter", limits))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	_ = logger.Sync()
}
