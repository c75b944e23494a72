package mocks

import (
	context "context"

	domain "github.com/srgjo27/showtime_booking/internal/core/domain"
	mock "github.com/stretchr/testify/mock"
)

// PaymentGateway is a testify mock of ports.PaymentGateway.
type PaymentGateway struct {
	mock.Mock
}

// Charge provides a mock function with given fields: ctx, user, amountCents
func (_m *PaymentGateway) Charge(ctx context.Context, user domain.User, amountCents int64) (*domain.Payment, error) {
	ret := _m.Called(ctx, user, amountCents)

	if len(ret) == 0 {
		panic("no return value specified for Charge")
	}

	var r0 *domain.Payment
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.User, int64) (*domain.Payment, error)); ok {
		return rf(ctx, user, amountCents)
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.User, int64) *domain.Payment); ok {
		r0 = rf(ctx, user, amountCents)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Payment)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.User, int64) error); ok {
		r1 = rf(ctx, user, amountCents)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewPaymentGateway creates a new instance of PaymentGateway. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewPaymentGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentGateway {
	mock := &PaymentGateway{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
