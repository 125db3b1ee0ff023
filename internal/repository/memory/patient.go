// Package memory provides an in-memory PatientStore used by tests and local
// runs without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

var _ model.PatientStore = (*PatientRepository)(nil)

// PatientRepository keeps patients in a map guarded by a mutex. Values are
// cloned on the way in and out so callers never share maps with the store.
type PatientRepository struct {
	mu       sync.RWMutex
	patients map[string]model.Patient
	now      func() time.Time
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{
		patients: make(map[string]model.Patient),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *PatientRepository) Create(_ context.Context, patient model.Patient) (model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient.ID = model.CanonicalID(patient.ID)
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	now := r.now()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	if patient.Fields == nil {
		patient.Fields = model.Fields{}
	}

	stored := patient.Clone()
	r.patients[patient.ID] = stored
	return stored.Clone(), nil
}

func (r *PatientRepository) GetByID(_ context.Context, id string) (model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[model.CanonicalID(id)]
	if !ok {
		return model.Patient{}, model.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *PatientRepository) GetByOwnerID(_ context.Context, ownerID string) ([]model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Patient
	for _, p := range r.patients {
		if model.IsOwner(p, ownerID) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PatientRepository) Update(_ context.Context, id string, patch model.PatientPatch) (model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = model.CanonicalID(id)
	p, ok := r.patients[id]
	if !ok {
		return model.Patient{}, model.ErrNotFound
	}

	if patch.ExpectedUpdatedAt != nil && !p.UpdatedAt.Equal(*patch.ExpectedUpdatedAt) {
		return model.Patient{}, model.ErrConflict
	}

	p = p.Clone()
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	for k, v := range patch.Fields {
		p.Fields[k] = v
	}
	p.UpdatedAt = r.now()

	r.patients[id] = p
	return p.Clone(), nil
}

func (r *PatientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = model.CanonicalID(id)
	if _, ok := r.patients[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *PatientRepository) Scan(_ context.Context, afterID string, limit int) ([]model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.patients))
	for id := range r.patients {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]model.Patient, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.patients[id].Clone())
	}
	return out, nil
}

// Put stores patient verbatim, keeping its ID and timestamps. Tests use it
// to seed rows that predate encryption.
func (r *PatientRepository) Put(patient model.Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if patient.Fields == nil {
		patient.Fields = model.Fields{}
	}
	patient.ID = model.CanonicalID(patient.ID)
	r.patients[patient.ID] = patient.Clone()
}
