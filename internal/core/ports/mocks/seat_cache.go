package mocks

import (
	context "context"

	domain "github.com/srgjo27/showtime_booking/internal/core/domain"
	mock "github.com/stretchr/testify/mock"

	uuid "github.com/google/uuid"
)

// SeatCache is a testify mock of ports.SeatCache.
type SeatCache struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, showID
func (_m *SeatCache) Get(ctx context.Context, showID uuid.UUID) ([]domain.SeatView, bool, error) {
	ret := _m.Called(ctx, showID)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 []domain.SeatView
	var r1 bool
	var r2 error
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) ([]domain.SeatView, bool, error)); ok {
		return rf(ctx, showID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) []domain.SeatView); ok {
		r0 = rf(ctx, showID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]domain.SeatView)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uuid.UUID) bool); ok {
		r1 = rf(ctx, showID)
	} else {
		r1 = ret.Get(1).(bool)
	}

	if rf, ok := ret.Get(2).(func(context.Context, uuid.UUID) error); ok {
		r2 = rf(ctx, showID)
	} else {
		r2 = ret.Error(2)
	}

	return r0, r1, r2
}

// Invalidate provides a mock function with given fields: ctx, showID
func (_m *SeatCache) Invalidate(ctx context.Context, showID uuid.UUID) error {
	ret := _m.Called(ctx, showID)

	if len(ret) == 0 {
		panic("no return value specified for Invalidate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) error); ok {
		r0 = rf(ctx, showID)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Set provides a mock function with given fields: ctx, showID, seats
func (_m *SeatCache) Set(ctx context.Context, showID uuid.UUID, seats []domain.SeatView) error {
	ret := _m.Called(ctx, showID, seats)

	if len(ret) == 0 {
		panic("no return value specified for Set")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, []domain.SeatView) error); ok {
		r0 = rf(ctx, showID, seats)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewSeatCache creates a new instance of SeatCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewSeatCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *SeatCache {
	mock := &SeatCache{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
