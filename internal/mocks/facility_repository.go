package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// MockFacilityRepository is a mock of repositories.FacilityRepository
type MockFacilityRepository struct {
	mock.Mock
}

type MockFacilityRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockFacilityRepository) EXPECT() *MockFacilityRepository_Expecter {
	return &MockFacilityRepository_Expecter{mock: &_m.Mock}
}

// List provides a mock function with given fields: ctx
func (_m *MockFacilityRepository) List(ctx context.Context) ([]entities.Facility, error) {
	ret := _m.Called(ctx)
	var r0 []entities.Facility
	if v := ret.Get(0); v != nil {
		r0 = v.([]entities.Facility)
	}
	return r0, ret.Error(1)
}

type MockFacilityRepository_List_Call struct {
	*mock.Call
}

func (_e *MockFacilityRepository_Expecter) List(ctx interface{}) *MockFacilityRepository_List_Call {
	return &MockFacilityRepository_List_Call{Call: _e.mock.On("List", ctx)}
}

func (_c *MockFacilityRepository_List_Call) Return(facilities []entities.Facility, err error) *MockFacilityRepository_List_Call {
	_c.Call.Return(facilities, err)
	return _c
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockFacilityRepository) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	ret := _m.Called(ctx, id)
	var r0 *entities.Facility
	if v := ret.Get(0); v != nil {
		r0 = v.(*entities.Facility)
	}
	return r0, ret.Error(1)
}

type MockFacilityRepository_GetByID_Call struct {
	*mock.Call
}

func (_e *MockFacilityRepository_Expecter) GetByID(ctx interface{}, id interface{}) *MockFacilityRepository_GetByID_Call {
	return &MockFacilityRepository_GetByID_Call{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_c *MockFacilityRepository_GetByID_Call) Return(facility *entities.Facility, err error) *MockFacilityRepository_GetByID_Call {
	_c.Call.Return(facility, err)
	return _c
}

// Upsert provides a mock function with given fields: ctx, facility
func (_m *MockFacilityRepository) Upsert(ctx context.Context, facility *entities.Facility) error {
	ret := _m.Called(ctx, facility)
	return ret.Error(0)
}

type MockFacilityRepository_Upsert_Call struct {
	*mock.Call
}

func (_e *MockFacilityRepository_Expecter) Upsert(ctx interface{}, facility interface{}) *MockFacilityRepository_Upsert_Call {
	return &MockFacilityRepository_Upsert_Call{Call: _e.mock.On("Upsert", ctx, facility)}
}

func (_c *MockFacilityRepository_Upsert_Call) Return(err error) *MockFacilityRepository_Upsert_Call {
	_c.Call.Return(err)
	return _c
}

// NewMockFacilityRepository creates a new instance of MockFacilityRepository and
// registers a cleanup that asserts its expectations.
func NewMockFacilityRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFacilityRepository {
	m := &MockFacilityRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
