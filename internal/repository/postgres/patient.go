package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

var _ model.PatientStore = (*PatientRepository)(nil)

const patientColumns = `id, owner_id, name, fields, created_at, updated_at`

// PatientRepository stores patients in the patients table. Sensitive fields
// live in one jsonb document so partial updates can merge atomically.
type PatientRepository struct {
	db *Connection
}

func NewPatientRepository(db *Connection) *PatientRepository {
	return &PatientRepository{
		db: db,
	}
}

func (r *PatientRepository) Create(ctx context.Context, patient model.Patient) (model.Patient, error) {
	id := uuid.New()
	if patient.ID != "" {
		parsed, err := uuid.Parse(patient.ID)
		if err != nil {
			return model.Patient{}, fmt.Errorf("invalid patient id %q: %w", patient.ID, err)
		}
		id = parsed
	}

	fields, err := encodeFields(patient.Fields)
	if err != nil {
		return model.Patient{}, err
	}

	query := `
		INSERT INTO patients (id, owner_id, name, fields)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING ` + patientColumns

	saved, err := scanPatient(r.db.QueryRow(ctx, query, id, model.CanonicalID(patient.OwnerID), patient.Name, fields))
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to create patient: %w", err)
	}

	return saved, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (model.Patient, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return model.Patient{}, model.ErrNotFound
	}

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	patient, err := scanPatient(r.db.QueryRow(ctx, query, pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Patient{}, model.ErrNotFound
		}
		return model.Patient{}, fmt.Errorf("failed to get patient by id: %w", err)
	}

	return patient, nil
}

func (r *PatientRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	return r.queryPatients(ctx, query, model.CanonicalID(ownerID))
}

func (r *PatientRepository) Update(ctx context.Context, id string, patch model.PatientPatch) (model.Patient, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return model.Patient{}, model.ErrNotFound
	}

	fields, err := encodeFields(patch.Fields)
	if err != nil {
		return model.Patient{}, err
	}

	query := `
		UPDATE patients
		SET name = COALESCE($2, name),
		    fields = fields || $3::jsonb,
		    updated_at = NOW()
		WHERE id = $1
		  AND ($4::timestamptz IS NULL OR updated_at = $4)
		RETURNING ` + patientColumns

	patient, err := scanPatient(r.db.QueryRow(ctx, query, pid, patch.Name, fields, patch.ExpectedUpdatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Patient{}, r.missOrConflict(ctx, pid, patch)
		}
		return model.Patient{}, fmt.Errorf("failed to update patient: %w", err)
	}

	return patient, nil
}

// missOrConflict tells an absent row from a conditional update that lost.
func (r *PatientRepository) missOrConflict(ctx context.Context, id uuid.UUID, patch model.PatientPatch) error {
	if patch.ExpectedUpdatedAt == nil {
		return model.ErrNotFound
	}

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check patient existence: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrConflict
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return model.ErrNotFound
	}

	cmd, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PatientRepository) Scan(ctx context.Context, afterID string, limit int) ([]model.Patient, error) {
	after := uuid.Nil
	if afterID != "" {
		parsed, err := uuid.Parse(afterID)
		if err != nil {
			return nil, fmt.Errorf("invalid scan cursor %q: %w", afterID, err)
		}
		after = parsed
	}

	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE id > $1
		ORDER BY id
		LIMIT $2`

	return r.queryPatients(ctx, query, after, limit)
}

func (r *PatientRepository) queryPatients(ctx context.Context, query string, args ...any) ([]model.Patient, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patients, nil
}

func scanPatient(row pgx.Row) (model.Patient, error) {
	var (
		id        uuid.UUID
		patient   model.Patient
		rawFields []byte
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &patient.OwnerID, &patient.Name, &rawFields, &createdAt, &updatedAt); err != nil {
		return model.Patient{}, err
	}

	fields, err := decodeFields(rawFields)
	if err != nil {
		return model.Patient{}, fmt.Errorf("patient %s: %w", id, err)
	}

	patient.ID = id.String()
	patient.Fields = fields
	patient.CreatedAt = createdAt.UTC()
	patient.UpdatedAt = updatedAt.UTC()
	return patient, nil
}

func encodeFields(fields model.Fields) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode patient fields: %w", err)
	}
	return string(b), nil
}

func decodeFields(raw []byte) (model.Fields, error) {
	fields := model.Fields{}
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode patient fields: %w", err)
	}
	return fields, nil
}
