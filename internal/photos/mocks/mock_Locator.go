// Package mocks provides test doubles for the photos package.
package mocks

import (
	time "time"

	geo "github.com/sells-group/geotagger/internal/geo"
	mock "github.com/stretchr/testify/mock"
)

// MockLocator is a mock type for the Locator interface.
type MockLocator struct {
	mock.Mock
}

// Locate provides a mock function with given fields: query
func (_m *MockLocator) Locate(query time.Time) (geo.EstimatedPosition, error) {
	ret := _m.Called(query)

	if len(ret) == 0 {
		panic("no return value specified for Locate")
	}

	var r0 geo.EstimatedPosition
	var r1 error
	if rf, ok := ret.Get(0).(func(time.Time) (geo.EstimatedPosition, error)); ok {
		return rf(query)
	}
	if rf, ok := ret.Get(0).(func(time.Time) geo.EstimatedPosition); ok {
		r0 = rf(query)
	} else {
		r0 = ret.Get(0).(geo.EstimatedPosition)
	}

	if rf, ok := ret.Get(1).(func(time.Time) error); ok {
		r1 = rf(query)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockLocator creates a new instance of MockLocator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockLocator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLocator {
	m := &MockLocator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
