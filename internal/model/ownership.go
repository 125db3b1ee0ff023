package model

import (
	"strings"

	"github.com/google/uuid"
)

// CanonicalID normalizes an identifier. UUIDs in any accepted notation (upper
// case, braces, urn:uuid:) collapse to the lowercase hyphenated form; other
// identifiers are only trimmed.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// SameIdentity reports whether two identifiers denote the same account.
// Empty identifiers never match.
func SameIdentity(a, b string) bool {
	ca, cb := CanonicalID(a), CanonicalID(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb
}

// IsOwner reports whether callerID owns the patient.
func IsOwner(patient Patient, callerID string) bool {
	return SameIdentity(patient.OwnerID, callerID)
}
