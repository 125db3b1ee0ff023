package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/dtroode/ayurdiet-server/internal/model"
)

// PatientService is a mock type for the PatientService type
type PatientService struct {
	mock.Mock
}

// CreatePatient provides a mock function with given fields: ctx, ownerID, input
func (_m *PatientService) CreatePatient(ctx context.Context, ownerID string, input model.PatientInput) (model.Patient, error) {
	ret := _m.Called(ctx, ownerID, input)

	if rf, ok := ret.Get(0).(func(context.Context, string, model.PatientInput) (model.Patient, error)); ok {
		return rf(ctx, ownerID, input)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// GetPatient provides a mock function with given fields: ctx, ownerID, patientID
func (_m *PatientService) GetPatient(ctx context.Context, ownerID string, patientID string) (model.Patient, error) {
	ret := _m.Called(ctx, ownerID, patientID)

	if rf, ok := ret.Get(0).(func(context.Context, string, string) (model.Patient, error)); ok {
		return rf(ctx, ownerID, patientID)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// ListPatients provides a mock function with given fields: ctx, ownerID
func (_m *PatientService) ListPatients(ctx context.Context, ownerID string) ([]model.Patient, error) {
	ret := _m.Called(ctx, ownerID)

	var r0 []model.Patient
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]model.Patient, error)); ok {
		return rf(ctx, ownerID)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Patient)
	}

	return r0, ret.Error(1)
}

// UpdatePatient provides a mock function with given fields: ctx, ownerID, patientID, patch
func (_m *PatientService) UpdatePatient(ctx context.Context, ownerID string, patientID string, patch model.PatientPatch) (model.Patient, error) {
	ret := _m.Called(ctx, ownerID, patientID, patch)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, model.PatientPatch) (model.Patient, error)); ok {
		return rf(ctx, ownerID, patientID, patch)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// DeletePatient provides a mock function with given fields: ctx, ownerID, patientID
func (_m *PatientService) DeletePatient(ctx context.Context, ownerID string, patientID string) error {
	ret := _m.Called(ctx, ownerID, patientID)

	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		return rf(ctx, ownerID, patientID)
	}

	return ret.Error(0)
}

// NewPatientService creates a new instance of PatientService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPatientService(t interface {
	mock.TestingT
	Cleanup(func())
}) *PatientService {
	m := &PatientService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
