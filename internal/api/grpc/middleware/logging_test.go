package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/ayurdiet-server/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    grpc.UnaryHandler
		wantCode   codes.Code
		wantFailed bool
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				time.Sleep(10 * time.Millisecond)
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "client error is not logged as failure",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.InvalidArgument, "bad input")
			},
			wantCode: codes.InvalidArgument,
		},
		{
			name: "non-grpc error becomes Internal",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, errors.New("boom")
			},
			wantCode:   codes.Internal,
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg, buf := testutil.MakeBufferLogger()
			info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}
			resp, err := NewLogging(lg).HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			out := buf.String()
			assert.Contains(t, out, "gRPC request completed")
			assert.Contains(t, out, "method=/svc/Method")
			assert.Contains(t, out, "status="+tt.wantCode.String())
			if tt.wantFailed {
				assert.Contains(t, out, "gRPC request failed")
			} else {
				assert.NotContains(t, out, "gRPC request failed")
			}

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}
			assert.Error(t, err)
		})
	}
}
