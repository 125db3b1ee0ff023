package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/dtroode/ayurdiet-server/internal/model"
)

// PatientStore is a mock type for the PatientStore type
type PatientStore struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, patient
func (_m *PatientStore) Create(ctx context.Context, patient model.Patient) (model.Patient, error) {
	ret := _m.Called(ctx, patient)

	if rf, ok := ret.Get(0).(func(context.Context, model.Patient) (model.Patient, error)); ok {
		return rf(ctx, patient)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *PatientStore) GetByID(ctx context.Context, id string) (model.Patient, error) {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) (model.Patient, error)); ok {
		return rf(ctx, id)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// GetByOwnerID provides a mock function with given fields: ctx, ownerID
func (_m *PatientStore) GetByOwnerID(ctx context.Context, ownerID string) ([]model.Patient, error) {
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

// Update provides a mock function with given fields: ctx, id, patch
func (_m *PatientStore) Update(ctx context.Context, id string, patch model.PatientPatch) (model.Patient, error) {
	ret := _m.Called(ctx, id, patch)

	if rf, ok := ret.Get(0).(func(context.Context, string, model.PatientPatch) (model.Patient, error)); ok {
		return rf(ctx, id, patch)
	}

	return ret.Get(0).(model.Patient), ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *PatientStore) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		return rf(ctx, id)
	}

	return ret.Error(0)
}

// Scan provides a mock function with given fields: ctx, afterID, limit
func (_m *PatientStore) Scan(ctx context.Context, afterID string, limit int) ([]model.Patient, error) {
	ret := _m.Called(ctx, afterID, limit)

	var r0 []model.Patient
	if rf, ok := ret.Get(0).(func(context.Context, string, int) ([]model.Patient, error)); ok {
		return rf(ctx, afterID, limit)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Patient)
	}

	return r0, ret.Error(1)
}

// NewPatientStore creates a new instance of PatientStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPatientStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *PatientStore {
	m := &PatientStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
