// Package mocks provides test doubles for the exif reader/writer.
package mocks

import (
	"context"

	exif "github.com/sells-group/geotagger/internal/exif"
	mock "github.com/stretchr/testify/mock"
)

// MockReadWriter is a mock type for the ReadWriter interface.
type MockReadWriter struct {
	mock.Mock
}

// CaptureTime provides a mock function with given fields: ctx, path
func (_m *MockReadWriter) CaptureTime(ctx context.Context, path string) (string, error) {
	ret := _m.Called(ctx, path)

	if len(ret) == 0 {
		panic("no return value specified for CaptureTime")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, path)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, path)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// WriteGPS provides a mock function with given fields: ctx, path, tag
func (_m *MockReadWriter) WriteGPS(ctx context.Context, path string, tag exif.GPSTag) error {
	ret := _m.Called(ctx, path, tag)

	if len(ret) == 0 {
		panic("no return value specified for WriteGPS")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, exif.GPSTag) error); ok {
		r0 = rf(ctx, path, tag)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockReadWriter creates a new instance of MockReadWriter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockReadWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReadWriter {
	m := &MockReadWriter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
