// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of the ssm.API interface
type MockAPI struct {
	mock.Mock
}

// GetParameter provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *ssm.GetParameterOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *ssm.GetParameterInput) (*ssm.GetParameterOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ssm.GetParameterOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// PutParameter provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *ssm.PutParameterOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *ssm.PutParameterInput) (*ssm.PutParameterOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ssm.PutParameterOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// DeleteParameter provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *ssm.DeleteParameterOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *ssm.DeleteParameterInput) (*ssm.DeleteParameterOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ssm.DeleteParameterOutput)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// AddTagsToResource provides a mock function with given fields: ctx, params, optFns
func (m *MockAPI) AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error) {
	ret := m.Called(ctx, params)

	var r0 *ssm.AddTagsToResourceOutput
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *ssm.AddTagsToResourceInput) (*ssm.AddTagsToResourceOutput, error)); ok {
		return rf(ctx, params)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ssm.AddTagsToResourceOutput)
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
