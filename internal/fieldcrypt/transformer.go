package fieldcrypt

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
)

// Direction selects what Transform does to sensitive fields.
type Direction int

const (
	// Encrypt replaces plaintext values with ciphertext.
	Encrypt Direction = iota
	// Decrypt replaces ciphertext values with plaintext.
	Decrypt
)

func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Transformer applies a Cipher to the sensitive fields of patient records.
// Name, ID and OwnerID are never touched.
type Transformer struct {
	cipher *Cipher
	logger *logger.Logger
}

// NewTransformer creates a Transformer around cipher.
func NewTransformer(cipher *Cipher, logger *logger.Logger) *Transformer {
	return &Transformer{cipher: cipher, logger: logger}
}

// Transform returns a copy of patient with every sensitive field converted in
// the given direction. Decrypt never fails: values that cannot be decrypted
// are returned as stored.
func (t *Transformer) Transform(ctx context.Context, patient model.Patient, dir Direction) (model.Patient, error) {
	out := patient.Clone()

	switch dir {
	case Encrypt:
		fields, err := t.EncryptFields(patient.Fields)
		if err != nil {
			return model.Patient{}, err
		}
		out.Fields = fields
	case Decrypt:
		out.Fields = t.DecryptFields(ctx, patient.ID, patient.Fields)
	default:
		return model.Patient{}, fmt.Errorf("unknown transform direction: %s", dir)
	}

	return out, nil
}

// EncryptFields returns a copy of fields with every present, non-empty
// sensitive value encrypted. Null and empty values pass through.
func (t *Transformer) EncryptFields(fields model.Fields) (model.Fields, error) {
	out := fields.Clone()
	for _, f := range model.SensitiveFields {
		v, ok := fields[f.Name]
		if !ok || v.IsEmpty() {
			continue
		}
		enc, err := t.encryptValue(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt field %s: %w", f.Name, err)
		}
		out[f.Name] = enc
	}
	return out, nil
}

// DecryptFields returns a copy of fields with every sensitive value decrypted.
func (t *Transformer) DecryptFields(ctx context.Context, patientID string, fields model.Fields) model.Fields {
	out := fields.Clone()
	for _, f := range model.SensitiveFields {
		v, ok := fields[f.Name]
		if !ok || v.IsEmpty() {
			continue
		}
		out[f.Name] = t.decryptValue(ctx, patientID, f.Name, v)
	}
	return out
}

func (t *Transformer) encryptValue(v model.Value) (model.Value, error) {
	if v.Kind() == model.KindString {
		ct, err := t.cipher.Encrypt(v.Str())
		if err != nil {
			return model.Value{}, err
		}
		return model.String(ct), nil
	}

	items := v.Items()
	sealed := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		ct, err := t.cipher.Encrypt(item)
		if err != nil {
			return model.Value{}, err
		}
		sealed = append(sealed, ct)
	}
	return model.List(sealed...), nil
}

func (t *Transformer) decryptValue(ctx context.Context, patientID string, field model.Field, v model.Value) model.Value {
	if v.Kind() == model.KindString {
		var plain model.Value
		if err := t.cipher.Decrypt(v.Str(), &plain); err != nil {
			t.logFallback(ctx, patientID, field, err)
			return v
		}
		return plain
	}

	items := v.Items()
	opened := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		var plain model.Value
		if err := t.cipher.Decrypt(item, &plain); err != nil {
			t.logFallback(ctx, patientID, field, err)
			opened = append(opened, item)
			continue
		}
		switch plain.Kind() {
		case model.KindString:
			if plain.Str() != "" {
				opened = append(opened, plain.Str())
			}
		case model.KindList:
			for _, s := range plain.Items() {
				if s != "" {
					opened = append(opened, s)
				}
			}
		}
	}
	return model.List(opened...)
}

func (t *Transformer) logFallback(ctx context.Context, patientID string, field model.Field, err error) {
	if errors.Is(err, ErrNotCiphertext) {
		t.logger.DebugContext(ctx, "Transformer: legacy plaintext value returned as stored",
			"patient_id", patientID,
			"field", field)
		return
	}
	t.logger.WarnContext(ctx, "Transformer: value could not be decrypted, returning stored value",
		"patient_id", patientID,
		"field", field,
		"error", err.Error())
}
