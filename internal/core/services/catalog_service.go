package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/ports"
)

// CatalogService answers the browse path city -> movie -> theatre -> show.
type CatalogService struct {
	catalogRepo ports.CatalogRepository
}

func NewCatalogService(catalogRepo ports.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) Movies(ctx context.Context, city domain.City, date string) ([]string, error) {
	theatres, err := s.theatres(ctx, city)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, theatre := range theatres {
		for _, screen := range theatre.Screens {
			for _, show := range screen.ShowsOn(date) {
				seen[show.Movie.Name] = struct{}{}
			}
		}
	}

	movies := make([]string, 0, len(seen))
	for name := range seen {
		movies = append(movies, name)
	}
	slices.Sort(movies)

	return movies, nil
}

func (s *CatalogService) Theatres(ctx context.Context, city domain.City, movie, date string) ([]*domain.Theatre, error) {
	theatres, err := s.theatres(ctx, city)
	if err != nil {
		return nil, err
	}

	var result []*domain.Theatre
	for _, theatre := range theatres {
		if len(theatre.ShowsFor(movie, date)) > 0 {
			result = append(result, theatre)
		}
	}

	return result, nil
}

func (s *CatalogService) Shows(ctx context.Context, theatreID uuid.UUID, movie, date string) ([]*domain.Show, error) {
	theatre, err := s.catalogRepo.TheatreByID(ctx, theatreID)
	if err != nil {
		if errors.Is(err, domain.ErrTheatreNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find theatre: %w", err)
	}

	shows := theatre.ShowsFor(movie, date)
	sort.SliceStable(shows, func(i, j int) bool { return shows[i].Time < shows[j].Time })

	return shows, nil
}

func (s *CatalogService) Show(ctx context.Context, showID uuid.UUID) (*domain.Show, error) {
	show, err := s.catalogRepo.ShowByID(ctx, showID)
	if err != nil {
		if errors.Is(err, domain.ErrShowNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find show: %w", err)
	}

	return show, nil
}

func (s *CatalogService) theatres(ctx context.Context, city domain.City) ([]*domain.Theatre, error) {
	if !city.Valid() {
		return nil, fmt.Errorf("%w: unknown city %q", domain.ErrInvalidRequest, city)
	}

	theatres, err := s.catalogRepo.TheatresByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("list theatres: %w", err)
	}

	return theatres, nil
}
