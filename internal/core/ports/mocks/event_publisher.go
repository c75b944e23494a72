package mocks

import (
	context "context"

	domain "github.com/srgjo27/showtime_booking/internal/core/domain"
	mock "github.com/stretchr/testify/mock"
)

// EventPublisher is a testify mock of ports.EventPublisher.
type EventPublisher struct {
	mock.Mock
}

// PublishBookingConfirmed provides a mock function with given fields: ctx, booking, show
func (_m *EventPublisher) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking, show *domain.Show) error {
	ret := _m.Called(ctx, booking, show)

	if len(ret) == 0 {
		panic("no return value specified for PublishBookingConfirmed")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Booking, *domain.Show) error); ok {
		r0 = rf(ctx, booking, show)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewEventPublisher creates a new instance of EventPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	mock := &EventPublisher{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
