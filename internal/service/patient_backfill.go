package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

const defaultBackfillBatchSize = 100

// BackfillOptions control EncryptLegacy.
type BackfillOptions struct {
	BatchSize int
	// DryRun counts legacy values without writing anything.
	DryRun bool
	// Snapshot uploads every row to storage before it is rewritten.
	Snapshot bool
	// RunID names the snapshot folder. Defaults to the start time.
	RunID string
}

// BackfillReport summarizes one EncryptLegacy run.
type BackfillReport struct {
	RunID           string
	Scanned         int
	Rewritten       int
	FieldsEncrypted int
	Undecryptable   int
	// Conflicts counts rows changed by someone else between the scan and the
	// rewrite. They are left for the next run.
	Conflicts int
}

type patientSnapshot struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"ownerId"`
	Name      string       `json:"name"`
	Fields    model.Fields `json:"fields"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// EncryptLegacy walks every stored patient and encrypts sensitive values that
// were written before encryption existed. Already encrypted values, including
// ones the current key cannot open, are left untouched. A row is rewritten
// only if it has not changed since it was scanned; otherwise it is skipped and
// counted in Conflicts.
func (s *Patient) EncryptLegacy(ctx context.Context, opts BackfillOptions) (BackfillReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBackfillBatchSize
	}
	if opts.RunID == "" {
		opts.RunID = time.Now().UTC().Format("20060102T150405Z")
	}
	if opts.Snapshot && s.storage == nil {
		return BackfillReport{}, fmt.Errorf("snapshot requested but no storage configured")
	}

	report := BackfillReport{RunID: opts.RunID}
	after := ""

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := s.patientStore.Scan(ctx, after, opts.BatchSize)
		if err != nil {
			return report, fmt.Errorf("failed to scan patients after %q: %w", after, err)
		}
		if len(batch) == 0 {
			break
		}

		for _, patient := range batch {
			report.Scanned++

			patch, stats, err := s.transformer.SealLegacy(patient.Fields)
			if err != nil {
				return report, fmt.Errorf("patient %s: %w", patient.ID, err)
			}
			report.Undecryptable += stats.Undecryptable
			if stats.Undecryptable > 0 {
				s.logger.WarnContext(ctx, "Backfill: values do not open under the current key",
					"patient_id", patient.ID,
					"count", stats.Undecryptable)
			}
			if len(patch) == 0 {
				continue
			}

			if opts.DryRun {
				report.FieldsEncrypted += stats.FieldsEncrypted
				report.Rewritten++
				continue
			}

			if opts.Snapshot {
				if err := s.snapshot(ctx, opts.RunID, patient); err != nil {
					return report, err
				}
			}

			readAt := patient.UpdatedAt
			_, err = s.patientStore.Update(ctx, patient.ID, model.PatientPatch{
				Fields:            patch,
				ExpectedUpdatedAt: &readAt,
			})
			if errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrNotFound) {
				report.Conflicts++
				s.logger.WarnContext(ctx, "Backfill: patient changed during the run, skipped",
					"patient_id", patient.ID)
				continue
			}
			if err != nil {
				return report, fmt.Errorf("failed to rewrite patient %s: %w", patient.ID, err)
			}

			report.FieldsEncrypted += stats.FieldsEncrypted
			report.Rewritten++

			s.logger.DebugContext(ctx, "Backfill: patient rewritten",
				"patient_id", patient.ID,
				"fields", stats.FieldsEncrypted)
		}

		after = batch[len(batch)-1].ID
		if len(batch) < opts.BatchSize {
			break
		}
	}

	s.logger.InfoContext(ctx, "Backfill: finished",
		"run_id", report.RunID,
		"dry_run", opts.DryRun,
		"scanned", report.Scanned,
		"rewritten", report.Rewritten,
		"fields_encrypted", report.FieldsEncrypted,
		"undecryptable", report.Undecryptable,
		"conflicts", report.Conflicts)

	return report, nil
}

// snapshot uploads the stored row once per run. A rerun with the same RunID
// keeps the first copy.
func (s *Patient) snapshot(ctx context.Context, runID string, patient model.Patient) error {
	key := path.Join("backfill", runID, patient.ID+".json")

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check snapshot %s: %w", key, err)
	}
	if exists {
		return nil
	}

	body, err := json.Marshal(patientSnapshot{
		ID:        patient.ID,
		OwnerID:   patient.OwnerID,
		Name:      patient.Name,
		Fields:    patient.Fields,
		CreatedAt: patient.CreatedAt,
		UpdatedAt: patient.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot of patient %s: %w", patient.ID, err)
	}

	if err := s.storage.Upload(ctx, key, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return nil
}
