// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/williamokano/aws_config/pkg/storage"
)

// MockStore is a mock implementation of the storage.Store interface
type MockStore struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (m *MockStore) Name() string {
	ret := m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// Type provides a mock function with given fields:
func (m *MockStore) Type() string {
	ret := m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// ReadLatest provides a mock function with given fields: ctx, name
func (m *MockStore) ReadLatest(ctx context.Context, name string) (*storage.Parameter, error) {
	ret := m.Called(ctx, name)

	var r0 *storage.Parameter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*storage.Parameter, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *storage.Parameter); ok {
		r0 = rf(ctx, name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*storage.Parameter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Read provides a mock function with given fields: ctx, name, version
func (m *MockStore) Read(ctx context.Context, name string, version string) (*storage.Parameter, error) {
	ret := m.Called(ctx, name, version)

	var r0 *storage.Parameter
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*storage.Parameter, error)); ok {
		return rf(ctx, name, version)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *storage.Parameter); ok {
		r0 = rf(ctx, name, version)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*storage.Parameter)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, name, version)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// LatestVersion provides a mock function with given fields: ctx, name
func (m *MockStore) LatestVersion(ctx context.Context, name string) (string, error) {
	ret := m.Called(ctx, name)

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, name)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, name)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Deploy provides a mock function with given fields: ctx, name, value, tags
func (m *MockStore) Deploy(ctx context.Context, name string, value []byte, tags map[string]string) (*storage.Deployment, error) {
	ret := m.Called(ctx, name, value, tags)

	var r0 *storage.Deployment
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, []byte, map[string]string) (*storage.Deployment, error)); ok {
		return rf(ctx, name, value, tags)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, []byte, map[string]string) *storage.Deployment); ok {
		r0 = rf(ctx, name, value, tags)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*storage.Deployment)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, []byte, map[string]string) error); ok {
		r1 = rf(ctx, name, value, tags)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Delete provides a mock function with given fields: ctx, name, includeHistory
func (m *MockStore) Delete(ctx context.Context, name string, includeHistory bool) error {
	ret := m.Called(ctx, name, includeHistory)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, bool) error); ok {
		r0 = rf(ctx, name, includeHistory)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (m *MockStore) Close() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStore creates a new instance of MockStore
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	mock_1 := &MockStore{}
	mock_1.Mock.Test(t)

	t.Cleanup(func() { mock_1.AssertExpectations(t) })

	return mock_1
}
