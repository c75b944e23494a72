package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

// CatalogRepository holds theatres and indexes their shows. Theatres must be
// fully built, screens and shows included, before AddTheatre.
type CatalogRepository struct {
	mu       sync.RWMutex
	byCity   map[domain.City][]*domain.Theatre
	theatres map[uuid.UUID]*domain.Theatre
	shows    map[uuid.UUID]*domain.Show
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		byCity:   make(map[domain.City][]*domain.Theatre),
		theatres: make(map[uuid.UUID]*domain.Theatre),
		shows:    make(map[uuid.UUID]*domain.Show),
	}
}

func (r *CatalogRepository) AddTheatre(theatre *domain.Theatre) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.theatres[theatre.ID]; !ok {
		r.byCity[theatre.City] = append(r.byCity[theatre.City], theatre)
	}
	r.theatres[theatre.ID] = theatre

	for _, screen := range theatre.Screens {
		for _, show := range screen.Shows() {
			r.shows[show.ID] = show
		}
	}
}

func (r *CatalogRepository) TheatresByCity(ctx context.Context, city domain.City) ([]*domain.Theatre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	theatres := make([]*domain.Theatre, len(r.byCity[city]))
	copy(theatres, r.byCity[city])

	return theatres, nil
}

func (r *CatalogRepository) TheatreByID(ctx context.Context, theatreID uuid.UUID) (*domain.Theatre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	theatre, ok := r.theatres[theatreID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTheatreNotFound, theatreID)
	}

	return theatre, nil
}

func (r *CatalogRepository) ShowByID(ctx context.Context, showID uuid.UUID) (*domain.Show, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	show, ok := r.shows[showID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShowNotFound, showID)
	}

	return show, nil
}
