// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of the s3.API interface
type MockAPI struct {
	mock.Mock
}

// GetBucketVersioning provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.GetBucketVersioningOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.GetBucketVersioningInput) (*s3.GetBucketVersioningOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.GetBucketVersioningOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// GetObject provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.GetObjectOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.GetObjectInput) (*s3.GetObjectOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.GetObjectOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// HeadObject provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.HeadObjectOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.HeadObjectInput) (*s3.HeadObjectOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.HeadObjectOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// PutObject provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.PutObjectOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.PutObjectInput) (*s3.PutObjectOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.PutObjectOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// CopyObject provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.CopyObjectOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.CopyObjectInput) (*s3.CopyObjectOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.CopyObjectOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// DeleteObject provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.DeleteObjectOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.DeleteObjectOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// DeleteObjects provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.DeleteObjectsOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.DeleteObjectsOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// ListObjectsV2 provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.ListObjectsV2Output
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.ListObjectsV2Output)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// ListObjectVersions provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *s3.ListObjectVersionsOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *s3.ListObjectVersionsInput) (*s3.ListObjectVersionsOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*s3.ListObjectVersionsOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockAPI creates a new instance of MockAPI
func NewMockAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAPI {
	mock_1 := &MockAPI{}
	mock_1.Mock.Test(t)

	t.Cleanup(func() { mock_1.AssertExpectations(t) })

	return mock_1
}
