package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/ayurdiet-server/internal/logger"
	"github.com/dtroode/ayurdiet-server/internal/model"
)

// PatientService defines business operations for patient records.
type PatientService interface {
	CreatePatient(ctx context.Context, ownerID string, input model.PatientInput) (model.Patient, error)
	GetPatient(ctx context.Context, ownerID, patientID string) (model.Patient, error)
	ListPatients(ctx context.Context, ownerID string) ([]model.Patient, error)
	UpdatePatient(ctx context.Context, ownerID, patientID string, patch model.PatientPatch) (model.Patient, error)
	DeletePatient(ctx context.Context, ownerID, patientID string) error
}

// Patient handles gRPC endpoints for patients.
type Patient struct {
	patientService PatientService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ PatientsServer = (*Patient)(nil)

// NewPatient creates a new Patient handler.
func NewPatient(patientService PatientService, contextManager model.ContextManager, logger *logger.Logger) *Patient {
	return &Patient{
		patientService: patientService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// CreatePatient registers a patient. The response echoes identity and
// timestamps only.
func (h *Patient) CreatePatient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.extractUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(req, keyID, keyOwnerID)
	if err != nil {
		return nil, handleError(err)
	}

	input := model.PatientInput{Fields: doc.fields}
	if doc.name != nil {
		input.Name = *doc.name
	}

	patient, err := h.patientService.CreatePatient(ctx, userID, input)
	if err != nil {
		h.logFailure(ctx, "create patient", userID, "", err)
		return nil, handleError(err)
	}

	return toStruct(createdDocument(patient))
}

// GetPatient returns the plaintext view of one patient.
func (h *Patient) GetPatient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.extractUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := requireID(req)
	if err != nil {
		return nil, handleError(err)
	}

	patient, err := h.patientService.GetPatient(ctx, userID, patientID)
	if err != nil {
		h.logFailure(ctx, "get patient", userID, patientID, err)
		return nil, handleError(err)
	}

	return toStruct(patientDocument(patient))
}

// ListPatients returns every patient of the caller, newest first.
func (h *Patient) ListPatients(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.extractUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patients, err := h.patientService.ListPatients(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "list patients", userID, "", err)
		return nil, handleError(err)
	}

	docs := make([]any, 0, len(patients))
	for _, p := range patients {
		docs = append(docs, patientDocument(p))
	}

	return toStruct(map[string]any{keyPatients: docs})
}

// UpdatePatient applies a partial update and returns the plaintext result.
func (h *Patient) UpdatePatient(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.extractUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := requireID(req)
	if err != nil {
		return nil, handleError(err)
	}

	doc, err := decodeDocument(req, keyID)
	if err != nil {
		return nil, handleError(err)
	}

	patient, err := h.patientService.UpdatePatient(ctx, userID, patientID, model.PatientPatch{
		Name:   doc.name,
		Fields: doc.fields,
	})
	if err != nil {
		h.logFailure(ctx, "update patient", userID, patientID, err)
		return nil, handleError(err)
	}

	return toStruct(patientDocument(patient))
}

// DeletePatient removes a patient.
func (h *Patient) DeletePatient(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := h.extractUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := requireID(req)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.patientService.DeletePatient(ctx, userID, patientID); err != nil {
		h.logFailure(ctx, "delete patient", userID, patientID, err)
		return nil, handleError(err)
	}

	return &emptypb.Empty{}, nil
}

func (h *Patient) extractUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "caller is not authenticated")
	}
	return userID, nil
}

func (h *Patient) logFailure(ctx context.Context, op, userID, patientID string, err error) {
	if isClientError(err) {
		h.logger.DebugContext(ctx, "Patient handler: "+op+" rejected",
			"user_id", userID,
			"patient_id", patientID,
			"error", err.Error())
		return
	}
	h.logger.ErrorContext(ctx, "Patient handler: "+op+" failed",
		"user_id", userID,
		"patient_id", patientID,
		"error", err.Error())
}

func toStruct(doc map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return s, nil
}
