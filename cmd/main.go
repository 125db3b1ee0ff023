package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/ayurdiet-server/internal/api/grpc/context"
	"github.com/dtroode/ayurdiet-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/ayurdiet-server/internal/api/grpc/server"
	"github.com/dtroode/ayurdiet-server/internal/config"
	"github.com/dtroode/ayurdiet-server/internal/fieldcrypt"
	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
	"github.com/dtroode/ayurdiet-server/internal/repository/postgres"
	"github.com/dtroode/ayurdiet-server/internal/server"
	"github.com/dtroode/ayurdiet-server/internal/service"
	"github.com/dtroode/ayurdiet-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	cipher, err := fieldcrypt.NewCipher(cfg.Encryption.Key)
	if err != nil {
		logger.Fatal("failed to initialize field encryption", "error", err)
	}
	transformer := fieldcrypt.NewTransformer(cipher, logger)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	patientRepo := postgres.NewPatientRepository(db)
	patientService := service.NewPatient(patientRepo, transformer, nil, logger)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := grpcctx.NewManager()

	r := router.New(patientService, tokenManager, ctxMgr, logger)
	s := r.Register()
	reflection.Register(s)
	srv := grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	r.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
