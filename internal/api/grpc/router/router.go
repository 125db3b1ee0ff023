package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dtroode/ayurdiet-server/internal/api/grpc/handler"
	"github.com/dtroode/ayurdiet-server/internal/api/grpc/middleware"
	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
)

// Router builds the gRPC server for the patient API.
type Router struct {
	patientService handler.PatientService
	tokenParser    middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
// It initializes a gRPC router with the patient service and bearer token verification.
//
// Parameters:
//   - patientService: The patient service behind the Patients API
//   - tokenParser: Verifies bearer access tokens
//   - contextManager: Stores the authenticated caller in the request context
//   - logger: The logger for request logging
//
// Returns a pointer to the newly created Router instance.
func New(
	patientService handler.PatientService,
	tokenParser middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		patientService: patientService,
		tokenParser:    tokenParser,
		contextManager: contextManager,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// publicPrefixes are served without a bearer token.
var publicPrefixes = []string{
	"/" + healthpb.Health_ServiceDesc.ServiceName + "/",
	"/grpc.reflection.",
}

func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(c.FullMethod(), prefix) {
			return false
		}
	}
	return true
}

// Register creates a gRPC server with logging, panic recovery and
// authentication interceptors, and registers the patient and health
// services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenParser, r.contextManager, r.logger)
	recoveryOpt := recovery.WithRecoveryHandlerContext(r.recoverPanic)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerPatientRoutes(s)
	r.registerHealth(s)

	return s
}

// Shutdown marks every service as not serving so health checks fail while
// in-flight calls drain.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}

func (r *Router) registerPatientRoutes(server *grpc.Server) {
	patientHandler := handler.NewPatient(r.patientService, r.contextManager, r.logger)
	handler.RegisterPatientsServer(server, patientHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, r.health)
	r.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	r.health.SetServingStatus(handler.PatientsServiceName, healthpb.HealthCheckResponse_SERVING)
}

func (r *Router) recoverPanic(ctx context.Context, p any) error {
	r.logger.ErrorContext(ctx, "gRPC handler panicked", "panic", p)
	return status.Error(codes.Internal, "internal server error")
}
