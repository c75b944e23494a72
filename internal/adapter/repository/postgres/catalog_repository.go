package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

const (
	queryTheatres = `
	SELECT id, name, city
	FROM theatres
	ORDER BY name
	`

	queryScreenSeats = `
	SELECT theatre_id, screen_id, seat_id, category
	FROM screen_seats
	ORDER BY theatre_id, screen_id, seat_id
	`

	queryShows = `
	SELECT id, theatre_id, screen_id, movie_name,
		to_char(show_date, 'YYYY-MM-DD'), to_char(show_time, 'HH24:MI'), seat_price_cents
	FROM shows
	ORDER BY show_date, show_time
	`
)

// CatalogRepository reads theatres, screens and shows once at startup. Seat
// state is never stored; every loaded show starts with a fresh ledger.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type screenKey struct {
	theatreID uuid.UUID
	screenID  int
}

func (r *CatalogRepository) LoadTheatres(ctx context.Context) ([]*domain.Theatre, error) {
	theatres, byID, err := r.loadTheatres(ctx)
	if err != nil {
		return nil, err
	}

	screens, err := r.loadScreens(ctx, byID)
	if err != nil {
		return nil, err
	}

	if err := r.loadShows(ctx, screens); err != nil {
		return nil, err
	}

	return theatres, nil
}

func (r *CatalogRepository) loadTheatres(ctx context.Context) ([]*domain.Theatre, map[uuid.UUID]*domain.Theatre, error) {
	rows, err := r.db.QueryContext(ctx, queryTheatres)
	if err != nil {
		return nil, nil, fmt.Errorf("query theatres: %w", err)
	}

	defer rows.Close()

	var theatres []*domain.Theatre
	byID := make(map[uuid.UUID]*domain.Theatre)
	for rows.Next() {
		var theatre domain.Theatre
		var city string
		if err := rows.Scan(&theatre.ID, &theatre.Name, &city); err != nil {
			return nil, nil, fmt.Errorf("scan theatre: %w", err)
		}

		theatre.City = domain.City(city)
		theatres = append(theatres, &theatre)
		byID[theatre.ID] = &theatre
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate theatres: %w", err)
	}

	return theatres, byID, nil
}

func (r *CatalogRepository) loadScreens(ctx context.Context, theatres map[uuid.UUID]*domain.Theatre) (map[screenKey]*domain.Screen, error) {
	rows, err := r.db.QueryContext(ctx, queryScreenSeats)
	if err != nil {
		return nil, fmt.Errorf("query screen seats: %w", err)
	}

	defer rows.Close()

	screens := make(map[screenKey]*domain.Screen)
	for rows.Next() {
		var key screenKey
		var seat domain.Seat
		var category string
		if err := rows.Scan(&key.theatreID, &key.screenID, &seat.ID, &category); err != nil {
			return nil, fmt.Errorf("scan screen seat: %w", err)
		}
		seat.Category = domain.SeatCategory(category)

		screen, ok := screens[key]
		if !ok {
			theatre, ok := theatres[key.theatreID]
			if !ok {
				return nil, fmt.Errorf("screen %d references unknown theatre %s", key.screenID, key.theatreID)
			}

			screen = domain.NewScreen(key.screenID, nil)
			theatre.Screens = append(theatre.Screens, screen)
			screens[key] = screen
		}

		screen.Seats = append(screen.Seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screen seats: %w", err)
	}

	return screens, nil
}

func (r *CatalogRepository) loadShows(ctx context.Context, screens map[screenKey]*domain.Screen) error {
	rows, err := r.db.QueryContext(ctx, queryShows)
	if err != nil {
		return fmt.Errorf("query shows: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var (
			showID    uuid.UUID
			key       screenKey
			movieName string
			date      string
			showTime  string
			price     int64
		)
		if err := rows.Scan(&showID, &key.theatreID, &key.screenID, &movieName, &date, &showTime, &price); err != nil {
			return fmt.Errorf("scan show: %w", err)
		}

		screen, ok := screens[key]
		if !ok {
			return fmt.Errorf("show %s references unknown screen %d of theatre %s", showID, key.screenID, key.theatreID)
		}

		show := domain.NewShow(domain.Movie{Name: movieName}, date, showTime, screen, price)
		show.ID = showID
		screen.AddShow(show)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate shows: %w", err)
	}

	return nil
}
