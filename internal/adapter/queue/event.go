// Package queue publishes booking events to RabbitMQ.
package queue

import (
	"time"

	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent carries enough of the booking and show for consumers
// to notify or report without calling back into the service.
type BookingConfirmedEvent struct {
	BookingID   string          `json:"booking_id"`
	UserID      string          `json:"user_id"`
	ShowID      string          `json:"show_id"`
	MovieName   string          `json:"movie_name"`
	ShowDate    string          `json:"show_date"`
	ShowTime    string          `json:"show_time"`
	ScreenID    int             `json:"screen_id"`
	SeatIDs     []domain.SeatID `json:"seat_ids"`
	AmountCents int64           `json:"amount_cents"`
	PaymentID   string          `json:"payment_id"`
	ConfirmedAt string          `json:"confirmed_at"`
}

func NewBookingConfirmedEvent(booking *domain.Booking, show *domain.Show) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:   booking.ID.String(),
		UserID:      booking.UserID,
		ShowID:      booking.ShowID.String(),
		MovieName:   show.Movie.Name,
		ShowDate:    show.Date,
		ShowTime:    show.Time,
		ScreenID:    show.ScreenID,
		SeatIDs:     booking.SeatIDs,
		AmountCents: booking.AmountCents,
		PaymentID:   booking.Payment.ID.String(),
		ConfirmedAt: booking.CreatedAt.UTC().Format(time.RFC3339),
	}
}
