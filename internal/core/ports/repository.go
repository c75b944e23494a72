package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
}

type CatalogRepository interface {
	TheatresByCity(ctx context.Context, city domain.City) ([]*domain.Theatre, error)
	TheatreByID(ctx context.Context, theatreID uuid.UUID) (*domain.Theatre, error)
	ShowByID(ctx context.Context, showID uuid.UUID) (*domain.Show, error)
}
