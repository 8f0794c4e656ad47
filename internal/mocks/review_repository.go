package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
)

// MockReviewRepository is a mock of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

type MockReviewRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockReviewRepository) EXPECT() *MockReviewRepository_Expecter {
	return &MockReviewRepository_Expecter{mock: &_m.Mock}
}

// ListByFacility provides a mock function with given fields: ctx, facilityID
func (_m *MockReviewRepository) ListByFacility(ctx context.Context, facilityID string) ([]entities.Review, error) {
	ret := _m.Called(ctx, facilityID)
	var r0 []entities.Review
	if v := ret.Get(0); v != nil {
		r0 = v.([]entities.Review)
	}
	return r0, ret.Error(1)
}

type MockReviewRepository_ListByFacility_Call struct {
	*mock.Call
}

func (_e *MockReviewRepository_Expecter) ListByFacility(ctx interface{}, facilityID interface{}) *MockReviewRepository_ListByFacility_Call {
	return &MockReviewRepository_ListByFacility_Call{Call: _e.mock.On("ListByFacility", ctx, facilityID)}
}

func (_c *MockReviewRepository_ListByFacility_Call) Return(reviews []entities.Review, err error) *MockReviewRepository_ListByFacility_Call {
	_c.Call.Return(reviews, err)
	return _c
}

// Create provides a mock function with given fields: ctx, review
func (_m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	ret := _m.Called(ctx, review)
	return ret.Error(0)
}

type MockReviewRepository_Create_Call struct {
	*mock.Call
}

func (_e *MockReviewRepository_Expecter) Create(ctx interface{}, review interface{}) *MockReviewRepository_Create_Call {
	return &MockReviewRepository_Create_Call{Call: _e.mock.On("Create", ctx, review)}
}

func (_c *MockReviewRepository_Create_Call) Return(err error) *MockReviewRepository_Create_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockReviewRepository_Create_Call) Run(run func(ctx context.Context, review *entities.Review)) *MockReviewRepository_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entities.Review))
	})
	return _c
}

// SummariesByFacilities provides a mock function with given fields: ctx, facilityIDs
func (_m *MockReviewRepository) SummariesByFacilities(ctx context.Context, facilityIDs []string) (map[string]entities.ReviewSummary, error) {
	ret := _m.Called(ctx, facilityIDs)
	var r0 map[string]entities.ReviewSummary
	if v := ret.Get(0); v != nil {
		r0 = v.(map[string]entities.ReviewSummary)
	}
	return r0, ret.Error(1)
}

type MockReviewRepository_SummariesByFacilities_Call struct {
	*mock.Call
}

func (_e *MockReviewRepository_Expecter) SummariesByFacilities(ctx interface{}, facilityIDs interface{}) *MockReviewRepository_SummariesByFacilities_Call {
	return &MockReviewRepository_SummariesByFacilities_Call{Call: _e.mock.On("SummariesByFacilities", ctx, facilityIDs)}
}

func (_c *MockReviewRepository_SummariesByFacilities_Call) Return(summaries map[string]entities.ReviewSummary, err error) *MockReviewRepository_SummariesByFacilities_Call {
	_c.Call.Return(summaries, err)
	return _c
}

// NewMockReviewRepository creates a new instance of MockReviewRepository and
// registers a cleanup that asserts its expectations.
func NewMockReviewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReviewRepository {
	m := &MockReviewRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
