package memory

import (
	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

const (
	DemoDate           = "2026-02-10"
	demoSeatPriceCents = 25000
)

// DemoTheatres builds the sample catalog used when no database is
// configured: one Bengaluru theatre, one screen of ten seats and two shows.
func DemoTheatres() []*domain.Theatre {
	seats := make([]domain.Seat, 0, 10)
	for i := 1; i <= 10; i++ {
		category := domain.SeatNormal
		if i > 8 {
			category = domain.SeatPremium
		}
		seats = append(seats, domain.Seat{ID: domain.SeatID(i), Category: category})
	}

	screen := domain.NewScreen(1, seats)
	screen.AddShow(domain.NewShow(domain.Movie{Name: "Avengers"}, DemoDate, "10:00", screen, demoSeatPriceCents))
	screen.AddShow(domain.NewShow(domain.Movie{Name: "Inception"}, DemoDate, "18:00", screen, demoSeatPriceCents))

	return []*domain.Theatre{{
		ID:      uuid.New(),
		Name:    "PVR Orion Mall",
		City:    domain.CityBengaluru,
		Screens: []*domain.Screen{screen},
	}}
}
