package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
)

// TokenParser resolves the caller identifier from a bearer token.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
}

// Authenticate validates bearer tokens and injects the caller ID into context.
type Authenticate struct {
	tokenParser    TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenParser TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenParser: tokenParser, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from the authorization header, validates
// it and returns a context carrying the caller ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}

	userID, err := m.tokenParser.ParseAccessToken(tokenString)
	if err != nil {
		m.logger.DebugContext(ctx, "Authenticate: token rejected", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	userID = model.CanonicalID(userID)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}
