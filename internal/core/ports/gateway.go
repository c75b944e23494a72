package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

// PaymentGateway charges a user. A declined charge is a Payment with
// PaymentFailed status and a nil error; errors are reserved for the gateway
// being unreachable or ctx expiring.
type PaymentGateway interface {
	Charge(ctx context.Context, user domain.User, amountCents int64) (*domain.Payment, error)
}

type SeatCache interface {
	Get(ctx context.Context, showID uuid.UUID) ([]domain.SeatView, bool, error)
	Set(ctx context.Context, showID uuid.UUID, seats []domain.SeatView) error
	Invalidate(ctx context.Context, showID uuid.UUID) error
}

// EventPublisher announces confirmed bookings. Implementations must return
// once ctx is done.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, booking *domain.Booking, show *domain.Show) error
}
