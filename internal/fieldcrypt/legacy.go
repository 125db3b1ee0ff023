package fieldcrypt

import (
	"fmt"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

// LegacyStats counts what SealLegacy found in one record.
type LegacyStats struct {
	// FieldsEncrypted is the number of fields that held at least one
	// plaintext value.
	FieldsEncrypted int
	// Undecryptable is the number of prefixed values that do not open under
	// the current key. They are left as stored.
	Undecryptable int
}

// SealLegacy encrypts plaintext values that predate the encryption layer. It
// returns only the fields that changed, ready to be merged into the stored
// record. Values that already carry the ciphertext prefix are never
// encrypted again.
func (t *Transformer) SealLegacy(fields model.Fields) (model.Fields, LegacyStats, error) {
	var stats LegacyStats
	patch := model.Fields{}

	for _, f := range model.SensitiveFields {
		v, ok := fields[f.Name]
		if !ok || v.IsEmpty() {
			continue
		}

		if v.Kind() == model.KindString {
			if IsCiphertext(v.Str()) {
				if !t.opens(v.Str()) {
					stats.Undecryptable++
				}
				continue
			}
			ct, err := t.cipher.Encrypt(v.Str())
			if err != nil {
				return nil, LegacyStats{}, fmt.Errorf("failed to encrypt field %s: %w", f.Name, err)
			}
			patch[f.Name] = model.String(ct)
			stats.FieldsEncrypted++
			continue
		}

		items := v.Items()
		sealed := make([]string, 0, len(items))
		changed := false
		for _, item := range items {
			if item == "" {
				changed = true
				continue
			}
			if IsCiphertext(item) {
				if !t.opens(item) {
					stats.Undecryptable++
				}
				sealed = append(sealed, item)
				continue
			}
			ct, err := t.cipher.Encrypt(item)
			if err != nil {
				return nil, LegacyStats{}, fmt.Errorf("failed to encrypt field %s: %w", f.Name, err)
			}
			sealed = append(sealed, ct)
			changed = true
		}
		if changed {
			patch[f.Name] = model.List(sealed...)
			stats.FieldsEncrypted++
		}
	}

	return patch, stats, nil
}

func (t *Transformer) opens(ciphertext string) bool {
	var v model.Value
	return t.cipher.Decrypt(ciphertext, &v) == nil
}
