package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hengadev/errsx"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/ayurdiet-server/internal/model"
)

// handleError maps service errors to gRPC statuses. Internal errors are not
// described to the caller.
func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "patient not found")
	case errors.Is(err, model.ErrValidation):
		return validationStatus(err)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// validationStatus returns InvalidArgument with one field violation per
// rejected key when the error carries them.
func validationStatus(err error) error {
	st := status.New(codes.InvalidArgument, err.Error())

	var fieldErrs errsx.Map
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return st.Err()
	}

	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	br := &errdetails.BadRequest{}
	for _, k := range keys {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       k,
			Description: fmt.Sprint(fieldErrs[k]),
		})
	}

	withDetails, detailErr := st.WithDetails(br)
	if detailErr != nil {
		return st.Err()
	}
	return withDetails.Err()
}

func isClientError(err error) bool {
	return errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrValidation) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
