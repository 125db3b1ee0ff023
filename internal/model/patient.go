package model

import (
	"context"
	"time"
)

// PatientStore defines persistence operations for patients. Implementations
// store sensitive values exactly as given; encryption happens above them.
type PatientStore interface {
	Create(ctx context.Context, patient Patient) (Patient, error)
	GetByID(ctx context.Context, id string) (Patient, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]Patient, error)
	Update(ctx context.Context, id string, patch PatientPatch) (Patient, error)
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context, afterID string, limit int) ([]Patient, error)
}

// Fields maps sensitive attribute names to their values. A missing key means
// the attribute was never set.
type Fields map[Field]Value

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Patient represents one patient owned by a single practitioner account.
type Patient struct {
	ID        string
	OwnerID   string
	Name      string
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy of p that shares no map with it.
func (p Patient) Clone() Patient {
	p.Fields = p.Fields.Clone()
	return p
}

// PatientInput contains parameters to register a patient.
type PatientInput struct {
	Name   string
	Fields Fields
}

// PatientPatch is a partial update. Only keys present in Fields change; Name
// changes only when it is non-nil.
type PatientPatch struct {
	Name   *string
	Fields Fields
	// ExpectedUpdatedAt makes the update conditional: when set, the store
	// applies the patch only if the record's UpdatedAt still equals it and
	// returns ErrConflict otherwise.
	ExpectedUpdatedAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p PatientPatch) IsEmpty() bool {
	return p.Name == nil && len(p.Fields) == 0
}
