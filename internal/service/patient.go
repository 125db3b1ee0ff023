package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hengadev/errsx"

	"github.com/dtroode/ayurdiet-server/internal/fieldcrypt"
	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
)

// Patient is the only caller of the field transformer: it encrypts before
// every write and decrypts after every read, and it enforces ownership.
type Patient struct {
	patientStore model.PatientStore
	transformer  *fieldcrypt.Transformer
	storage      model.Storage
	logger       *logger.Logger
}

// NewPatient creates a patient service. storage may be nil; it is only used
// for backfill snapshots.
func NewPatient(
	patientStore model.PatientStore,
	transformer *fieldcrypt.Transformer,
	storage model.Storage,
	logger *logger.Logger,
) *Patient {
	return &Patient{
		patientStore: patientStore,
		transformer:  transformer,
		storage:      storage,
		logger:       logger,
	}
}

// CreatePatient validates input, encrypts its sensitive fields and stores it.
// The returned record is the stored one, still encrypted.
func (s *Patient) CreatePatient(ctx context.Context, ownerID string, input model.PatientInput) (model.Patient, error) {
	fields, errs := normalizeFields(input.Fields)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.Set("name", "is required")
	}
	for _, f := range model.RequiredOnCreate {
		if v, ok := fields[f]; !ok || v.IsEmpty() {
			errs.Set(string(f), "is required")
		}
	}
	if err := errs.AsError(); err != nil {
		return model.Patient{}, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	owner := model.CanonicalID(ownerID)
	if owner == "" {
		return model.Patient{}, fmt.Errorf("owner id is empty")
	}

	encrypted, err := s.transformer.EncryptFields(fields)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to encrypt patient fields: %w", err)
	}

	patient, err := s.patientStore.Create(ctx, model.Patient{
		OwnerID: owner,
		Name:    name,
		Fields:  encrypted,
	})
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to save patient: %w", err)
	}

	s.logger.InfoContext(ctx, "Patient: created",
		"patient_id", patient.ID,
		"owner_id", owner,
		"fields", len(encrypted))

	return patient, nil
}

// GetPatient returns the plaintext view of one patient owned by ownerID.
func (s *Patient) GetPatient(ctx context.Context, ownerID, patientID string) (model.Patient, error) {
	patient, err := s.getOwned(ctx, ownerID, patientID)
	if err != nil {
		return model.Patient{}, err
	}

	return s.decrypt(ctx, patient)
}

// ListPatients returns the plaintext views of every patient owned by ownerID,
// newest first.
func (s *Patient) ListPatients(ctx context.Context, ownerID string) ([]model.Patient, error) {
	patients, err := s.patientStore.GetByOwnerID(ctx, model.CanonicalID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get patients by owner id: %w", err)
	}

	out := make([]model.Patient, 0, len(patients))
	for _, p := range patients {
		// Rows of other owners are dropped even if the store returns them.
		if !model.IsOwner(p, ownerID) {
			continue
		}
		plain, err := s.decrypt(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, plain)
	}

	return out, nil
}

// UpdatePatient encrypts only the fields present in patch and merges them
// into the stored record. It returns the plaintext view of the result.
func (s *Patient) UpdatePatient(ctx context.Context, ownerID, patientID string, patch model.PatientPatch) (model.Patient, error) {
	fields, errs := normalizeFields(patch.Fields)
	var name *string
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			errs.Set("name", "must not be empty")
		}
		name = &trimmed
	}
	if err := errs.AsError(); err != nil {
		return model.Patient{}, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	existing, err := s.getOwned(ctx, ownerID, patientID)
	if err != nil {
		return model.Patient{}, err
	}

	encrypted, err := s.transformer.EncryptFields(fields)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to encrypt patient fields: %w", err)
	}

	updated := existing
	if name != nil || len(encrypted) > 0 {
		updated, err = s.patientStore.Update(ctx, existing.ID, model.PatientPatch{
			Name:   name,
			Fields: encrypted,
		})
		if err != nil {
			return model.Patient{}, fmt.Errorf("failed to update patient: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Patient: updated",
		"patient_id", existing.ID,
		"owner_id", model.CanonicalID(ownerID),
		"fields", len(encrypted),
		"renamed", name != nil)

	return s.decrypt(ctx, updated)
}

// DeletePatient removes a patient owned by ownerID.
func (s *Patient) DeletePatient(ctx context.Context, ownerID, patientID string) error {
	existing, err := s.getOwned(ctx, ownerID, patientID)
	if err != nil {
		return err
	}

	if err := s.patientStore.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.logger.InfoContext(ctx, "Patient: deleted",
		"patient_id", existing.ID,
		"owner_id", model.CanonicalID(ownerID))

	return nil
}

// getOwned loads a patient and hides it unless ownerID owns it. A patient of
// another owner is reported exactly like a missing one.
func (s *Patient) getOwned(ctx context.Context, ownerID, patientID string) (model.Patient, error) {
	patient, err := s.patientStore.GetByID(ctx, patientID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Patient{}, fmt.Errorf("patient %s: %w", patientID, model.ErrNotFound)
	}
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to get patient by id: %w", err)
	}

	if !model.IsOwner(patient, ownerID) {
		s.logger.DebugContext(ctx, "Patient: access by non-owner",
			"patient_id", patient.ID,
			"caller_id", ownerID)
		return model.Patient{}, fmt.Errorf("patient %s: %w", patientID, model.ErrNotFound)
	}

	return patient, nil
}

func (s *Patient) decrypt(ctx context.Context, patient model.Patient) (model.Patient, error) {
	plain, err := s.transformer.Transform(ctx, patient, fieldcrypt.Decrypt)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to decrypt patient %s: %w", patient.ID, err)
	}
	return plain, nil
}

// normalizeFields checks every key against the sensitive set and shapes each
// value the way its field expects. A scalar given for a list field becomes a
// one-element list; a list given for a scalar field is rejected.
func normalizeFields(fields model.Fields) (model.Fields, errsx.Map) {
	errs := make(errsx.Map)
	out := make(model.Fields, len(fields))

	for name, v := range fields {
		def, ok := model.LookupField(string(name))
		if !ok {
			errs.Set(string(name), "unknown field")
			continue
		}

		switch {
		case v.Kind() == model.KindNull:
			out[name] = v
		case def.List && v.Kind() == model.KindString:
			if v.Str() == "" {
				out[name] = v
				continue
			}
			out[name] = model.List(v.Str())
		case !def.List && v.Kind() == model.KindList:
			errs.Set(string(name), "expects a single value, got a list")
		default:
			out[name] = v
		}
	}

	return out, errs
}
