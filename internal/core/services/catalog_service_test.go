package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*services.CatalogService, *domain.Theatre) {
	t.Helper()

	repo := memory.NewCatalogRepository()
	theatres := memory.DemoTheatres()
	require.Len(t, theatres, 1)

	for _, theatre := range theatres {
		repo.AddTheatre(theatre)
	}

	return services.NewCatalogService(repo), theatres[0]
}

func TestCatalog_Movies(t *testing.T) {
	catalog, _ := newCatalog(t)
	ctx := context.Background()

	movies, err := catalog.Movies(ctx, domain.CityBengaluru, memory.DemoDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"Avengers", "Inception"}, movies)

	movies, err = catalog.Movies(ctx, domain.CityPune, memory.DemoDate)
	require.NoError(t, err)
	assert.Empty(t, movies)

	movies, err = catalog.Movies(ctx, domain.CityBengaluru, "2026-02-11")
	require.NoError(t, err)
	assert.Empty(t, movies)

	_, err = catalog.Movies(ctx, domain.City("MUMBAI"), memory.DemoDate)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestCatalog_Theatres(t *testing.T) {
	catalog, theatre := newCatalog(t)
	ctx := context.Background()

	theatres, err := catalog.Theatres(ctx, domain.CityBengaluru, "Inception", memory.DemoDate)
	require.NoError(t, err)
	require.Len(t, theatres, 1)
	assert.Equal(t, theatre.ID, theatres[0].ID)

	theatres, err = catalog.Theatres(ctx, domain.CityBengaluru, "Tenet", memory.DemoDate)
	require.NoError(t, err)
	assert.Empty(t, theatres)
}

func TestCatalog_ShowsSortedByTime(t *testing.T) {
	catalog, theatre := newCatalog(t)
	ctx := context.Background()

	shows, err := catalog.Shows(ctx, theatre.ID, "", memory.DemoDate)
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "10:00", shows[0].Time)
	assert.Equal(t, "18:00", shows[1].Time)

	shows, err = catalog.Shows(ctx, theatre.ID, "Avengers", memory.DemoDate)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "Avengers", shows[0].Movie.Name)

	_, err = catalog.Shows(ctx, uuid.New(), "", memory.DemoDate)
	assert.ErrorIs(t, err, domain.ErrTheatreNotFound)
}

func TestCatalog_Show(t *testing.T) {
	catalog, theatre := newCatalog(t)
	ctx := context.Background()

	want := theatre.ShowsFor("Inception", memory.DemoDate)[0]

	show, err := catalog.Show(ctx, want.ID)
	require.NoError(t, err)
	assert.Same(t, want, show)
	assert.Equal(t, 10, show.Ledger.Len())

	_, err = catalog.Show(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrShowNotFound)
}
