// Command backfill encrypts patient attributes that were stored before field
// encryption existed. Rows are snapshotted to object storage before they are
// rewritten unless BACKFILL_SNAPSHOT=false.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/ayurdiet-server/internal/config"
	"github.com/dtroode/ayurdiet-server/internal/fieldcrypt"
	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
	"github.com/dtroode/ayurdiet-server/internal/repository/postgres"
	"github.com/dtroode/ayurdiet-server/internal/service"
	"github.com/dtroode/ayurdiet-server/internal/storage/minio"
)

func main() {
	runID := flag.String("run-id", "", "snapshot folder name; defaults to the start time")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
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

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	var snapshots model.Storage
	if cfg.Backfill.Snapshot && !cfg.Backfill.DryRun {
		client, err := minio.Connect(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to initialize snapshot storage", "error", err)
		}
		snapshots = client
	}

	patientService := service.NewPatient(
		postgres.NewPatientRepository(db),
		fieldcrypt.NewTransformer(cipher, logger),
		snapshots,
		logger,
	)

	report, err := patientService.EncryptLegacy(ctx, service.BackfillOptions{
		BatchSize: cfg.Backfill.BatchSize,
		DryRun:    cfg.Backfill.DryRun,
		Snapshot:  snapshots != nil,
		RunID:     *runID,
	})
	if err != nil {
		logger.Fatal("backfill failed", "error", err, "scanned", report.Scanned, "rewritten", report.Rewritten)
	}

	if report.Conflicts > 0 {
		logger.Warn("some patients changed during the run; run again to encrypt them", "count", report.Conflicts)
	}
	if report.Undecryptable > 0 {
		logger.Warn("some values do not open under the current key", "count", report.Undecryptable)
	}
}
