package context

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

// userIDKey is the metadata key that carries the authenticated caller.
const (
	userIDKey string = "user_id"
)

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the caller identifier in incoming gRPC metadata. The
// authentication interceptor always overwrites whatever a client sent under
// the same key.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
//
// Returns a pointer to the newly created Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext sets the caller ID in the gRPC context metadata.
// Any value already present under the caller key is replaced.
//
// Parameters:
//   - ctx: The gRPC context
//   - userID: The caller identifier; stored in canonical form
//
// Returns a new context with the caller ID in incoming metadata.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID string) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(nil)
	}
	md.Set(userIDKey, model.CanonicalID(userID))

	return metadata.NewIncomingContext(ctx, md)
}

// GetUserIDFromContext retrieves the caller ID from gRPC context metadata.
//
// Parameters:
//   - ctx: The gRPC context
//
// Returns the canonical caller ID and a boolean that is false when the key is
// missing, empty or carries more than one value.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	userIDs := md.Get(userIDKey)
	if len(userIDs) != 1 {
		return "", false
	}

	userID := model.CanonicalID(userIDs[0])
	if userID == "" {
		return "", false
	}

	return userID, true
}
