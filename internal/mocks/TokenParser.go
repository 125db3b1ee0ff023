package mocks

import (
	mock "github.com/stretchr/testify/mock"
)

// TokenParser is a mock type for the TokenParser type
type TokenParser struct {
	mock.Mock
}

// ParseAccessToken provides a mock function with given fields: token
func (_m *TokenParser) ParseAccessToken(token string) (string, error) {
	ret := _m.Called(token)

	if rf, ok := ret.Get(0).(func(string) (string, error)); ok {
		return rf(token)
	}

	return ret.String(0), ret.Error(1)
}

// NewTokenParser creates a new instance of TokenParser. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenParser(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenParser {
	m := &TokenParser{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
