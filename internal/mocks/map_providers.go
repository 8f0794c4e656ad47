package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
)

// MockMapTokenProvider is a mock of providers.MapTokenProvider
type MockMapTokenProvider struct {
	mock.Mock
}

type MockMapTokenProvider_Expecter struct {
	mock *mock.Mock
}

func (_m *MockMapTokenProvider) EXPECT() *MockMapTokenProvider_Expecter {
	return &MockMapTokenProvider_Expecter{mock: &_m.Mock}
}

// Token provides a mock function with given fields: ctx
func (_m *MockMapTokenProvider) Token(ctx context.Context) (*providers.MapToken, error) {
	ret := _m.Called(ctx)
	var r0 *providers.MapToken
	if v := ret.Get(0); v != nil {
		r0 = v.(*providers.MapToken)
	}
	return r0, ret.Error(1)
}

type MockMapTokenProvider_Token_Call struct {
	*mock.Call
}

func (_e *MockMapTokenProvider_Expecter) Token(ctx interface{}) *MockMapTokenProvider_Token_Call {
	return &MockMapTokenProvider_Token_Call{Call: _e.mock.On("Token", ctx)}
}

func (_c *MockMapTokenProvider_Token_Call) Return(token *providers.MapToken, err error) *MockMapTokenProvider_Token_Call {
	_c.Call.Return(token, err)
	return _c
}

// NewMockMapTokenProvider creates a new instance of MockMapTokenProvider.
func NewMockMapTokenProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMapTokenProvider {
	m := &MockMapTokenProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockDirectionsProvider is a mock of providers.DirectionsProvider
type MockDirectionsProvider struct {
	mock.Mock
}

type MockDirectionsProvider_Expecter struct {
	mock *mock.Mock
}

func (_m *MockDirectionsProvider) EXPECT() *MockDirectionsProvider_Expecter {
	return &MockDirectionsProvider_Expecter{mock: &_m.Mock}
}

// Directions provides a mock function with given fields: ctx, origin, destination
func (_m *MockDirectionsProvider) Directions(ctx context.Context, origin, destination entities.Coordinates) ([]entities.Route, error) {
	ret := _m.Called(ctx, origin, destination)
	var r0 []entities.Route
	if v := ret.Get(0); v != nil {
		r0 = v.([]entities.Route)
	}
	return r0, ret.Error(1)
}

type MockDirectionsProvider_Directions_Call struct {
	*mock.Call
}

func (_e *MockDirectionsProvider_Expecter) Directions(ctx interface{}, origin interface{}, destination interface{}) *MockDirectionsProvider_Directions_Call {
	return &MockDirectionsProvider_Directions_Call{Call: _e.mock.On("Directions", ctx, origin, destination)}
}

func (_c *MockDirectionsProvider_Directions_Call) Return(routes []entities.Route, err error) *MockDirectionsProvider_Directions_Call {
	_c.Call.Return(routes, err)
	return _c
}

// NewMockDirectionsProvider creates a new instance of MockDirectionsProvider.
func NewMockDirectionsProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDirectionsProvider {
	m := &MockDirectionsProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
