package context

import (
	stdctx "context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestManager_SetAndGetUserID(t *testing.T) {
	m := NewManager()
	uid := uuid.NewString()
	ctx := m.SetUserIDToContext(stdctx.Background(), uid)

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_CanonicalizesUserID(t *testing.T) {
	m := NewManager()
	uid := uuid.NewString()
	ctx := m.SetUserIDToContext(stdctx.Background(), strings.ToUpper(uid))

	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)
}

func TestManager_GetUserID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetUserIDFromContext(stdctx.Background())
	assert.False(t, ok)

	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.New(map[string]string{"x-trace-id": "t"}))
	_, ok = m.GetUserIDFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetUserID_WithExistingMetadata(t *testing.T) {
	m := NewManager()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetUserIDToContext(ctxWithMD, "practitioner-7")
	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "practitioner-7", got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
}

func TestManager_SetUserID_OverridesClientValue(t *testing.T) {
	m := NewManager()
	spoofed := metadata.Pairs(userIDKey, "someone-else", userIDKey, "and-another")
	ctx := metadata.NewIncomingContext(stdctx.Background(), spoofed)

	ctx = m.SetUserIDToContext(ctx, "real-caller")
	got, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "real-caller", got)
}

func TestManager_GetUserID_Ambiguous(t *testing.T) {
	m := NewManager()
	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.Pairs(userIDKey, "a", userIDKey, "b"))
	_, ok := m.GetUserIDFromContext(ctx)
	assert.False(t, ok)
}
