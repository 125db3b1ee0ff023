package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/ayurdiet-server/internal/mocks"
	"github.com/dtroode/ayurdiet-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mdAuthHeader string
		parseCalled  bool
		parsedUserID string
		parseErr     error
		wantGRPCCode codes.Code
		wantErr      bool
	}{
		{
			name:         "missing authorization header",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic dXNlcjpwYXNz",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			parseCalled:  true,
			parseErr:     errors.New("signature is invalid"),
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "empty subject",
			mdAuthHeader: "Bearer token",
			parseCalled:  true,
			parsedUserID: "  ",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "valid token",
			mdAuthHeader: "Bearer token",
			parseCalled:  true,
			parsedUserID: "practitioner-1",
			wantGRPCCode: codes.OK,
		},
		{
			name:         "scheme is case-insensitive",
			mdAuthHeader: "bearer token",
			parseCalled:  true,
			parsedUserID: "practitioner-1",
			wantGRPCCode: codes.OK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)
			parser := mocks.NewTokenParser(t)

			if tt.parseCalled {
				parser.On("ParseAccessToken", "token").Maybe().Return(tt.parsedUserID, tt.parseErr)
				parser.On("ParseAccessToken", "invalid").Maybe().Return(tt.parsedUserID, tt.parseErr)
			}
			if !tt.wantErr {
				cm.On("SetUserIDToContext", mock.Anything, tt.parsedUserID).Return(context.Background())
			}

			m := NewAuthenticate(parser, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantGRPCCode, st.Code())
				assert.Nil(t, newCtx)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, newCtx)
		})
	}
}
