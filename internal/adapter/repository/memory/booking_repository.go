package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

// BookingRepository is an append-only booking registry. Bookings never change
// after Insert, so a single RWMutex over the indexes is enough.
type BookingRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*domain.Booking
	byUser map[string][]uuid.UUID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		byID:   make(map[uuid.UUID]*domain.Booking),
		byUser: make(map[string][]uuid.UUID),
	}
}

func (r *BookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[booking.ID]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBooking, booking.ID)
	}

	r.byID[booking.ID] = booking.Clone()
	r.byUser[booking.UserID] = append(r.byUser[booking.UserID], booking.ID)

	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.byID[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}

	return booking.Clone(), nil
}

// FindByUser returns the user's bookings in insertion order.
func (r *BookingRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	bookings := make([]*domain.Booking, 0, len(ids))
	for _, id := range ids {
		bookings = append(bookings, r.byID[id].Clone())
	}

	return bookings, nil
}

func (r *BookingRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}
