package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/adapter/handler"
	"github.com/srgjo27/showtime_booking/internal/adapter/payment"
	"github.com/srgjo27/showtime_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/services"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  http.Handler
	theatre *domain.Theatre
	show    *domain.Show
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalogRepo := memory.NewCatalogRepository()
	theatre := memory.DemoTheatres()[0]
	catalogRepo.AddTheatre(theatre)

	payments := payment.NewSimulator(payment.Config{DeclineUsers: []string{"broke"}})
	bookingService := services.NewBookingService(memory.NewBookingRepository(), payments, nil, nil, nil, time.Second)
	catalogService := services.NewCatalogService(catalogRepo)

	log := logger.Discard()
	h := handler.NewBookingHandler(bookingService, catalogService, log)

	return &testServer{
		router:  handler.NewRouter(h, log),
		theatre: theatre,
		show:    theatre.ShowsFor("Avengers", memory.DemoDate)[0],
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateBooking(t *testing.T) {
	s := newTestServer(t)
	path := "/shows/" + s.show.ID.String() + "/bookings"

	rec := s.do(t, http.MethodPost, path, `{"user_id":"u1","user_name":"Test User","seat_ids":[3,2]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[handler.BookingResponse](t, rec)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, s.show.ID.String(), resp.ShowID)
	assert.Equal(t, []domain.SeatID{2, 3}, resp.SeatIDs)
	assert.Equal(t, int64(50000), resp.AmountCents)
	_, err := uuid.Parse(resp.BookingID)
	assert.NoError(t, err)

	rec = s.do(t, http.MethodPost, path, `{"user_id":"u2","seat_ids":[3]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/bookings/"+resp.BookingID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resp, decode[handler.BookingResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/users/u1/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]handler.BookingResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, resp.BookingID, list[0].BookingID)
}

func TestCreateBooking_Errors(t *testing.T) {
	s := newTestServer(t)
	path := "/shows/" + s.show.ID.String() + "/bookings"

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{name: "invalid json", path: path, body: `{"user_id":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", path: path, body: `{"user_id":"u1","seat_ids":[1],"vip":true}`, wantStatus: http.StatusBadRequest},
		{name: "missing user", path: path, body: `{"seat_ids":[1]}`, wantStatus: http.StatusBadRequest},
		{name: "no seats", path: path, body: `{"user_id":"u1","seat_ids":[]}`, wantStatus: http.StatusBadRequest},
		{name: "non positive seat", path: path, body: `{"user_id":"u1","seat_ids":[0]}`, wantStatus: http.StatusBadRequest},
		{name: "duplicate seat", path: path, body: `{"user_id":"u1","seat_ids":[1,1]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown seat", path: path, body: `{"user_id":"u1","seat_ids":[11]}`, wantStatus: http.StatusBadRequest},
		{name: "declined payment", path: path, body: `{"user_id":"broke","seat_ids":[4]}`, wantStatus: http.StatusPaymentRequired},
		{name: "bad show id", path: "/shows/abc/bookings", body: `{"user_id":"u1","seat_ids":[1]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown show", path: "/shows/" + uuid.NewString() + "/bookings", body: `{"user_id":"u1","seat_ids":[1]}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]string](t, rec), "error")
		})
	}

	assert.Equal(t, 10, s.show.Ledger.Available())
}

func TestGetSeats(t *testing.T) {
	s := newTestServer(t)

	ok, err := s.show.Ledger.TryLock([]domain.SeatID{2})
	require.NoError(t, err)
	require.True(t, ok)

	rec := s.do(t, http.MethodGet, "/shows/"+s.show.ID.String()+"/seats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	seats := decode[[]domain.SeatView](t, rec)
	require.Len(t, seats, 10)
	assert.Equal(t, domain.SeatAvailable, seats[0].Status)
	assert.Equal(t, domain.SeatLocked, seats[1].Status)
	assert.Equal(t, domain.SeatPremium, seats[9].Category)

	rec = s.do(t, http.MethodGet, "/shows/"+uuid.NewString()+"/seats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBooking_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/bookings/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/bookings/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrowse(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/movies?city=bengaluru&date="+memory.DemoDate, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Avengers", "Inception"}, decode[[]string](t, rec))

	rec = s.do(t, http.MethodGet, "/movies?city=DELHI&date="+memory.DemoDate, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/movies?city=PUNE&date=10-02-2026", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/theatres?city=BENGALURU&movie=Inception&date="+memory.DemoDate, "")
	require.Equal(t, http.StatusOK, rec.Code)
	theatres := decode[[]handler.TheatreResponse](t, rec)
	require.Len(t, theatres, 1)
	assert.Equal(t, s.theatre.ID.String(), theatres[0].TheatreID)
	assert.Equal(t, "BENGALURU", theatres[0].City)

	rec = s.do(t, http.MethodGet, "/theatres/"+s.theatre.ID.String()+"/shows?date="+memory.DemoDate, "")
	require.Equal(t, http.StatusOK, rec.Code)
	shows := decode[[]handler.ShowResponse](t, rec)
	require.Len(t, shows, 2)
	assert.Equal(t, "Avengers", shows[0].Movie)
	assert.Equal(t, "10:00", shows[0].Time)
	assert.Equal(t, 10, shows[0].AvailableSeats)

	rec = s.do(t, http.MethodGet, "/theatres/"+s.theatre.ID.String()+"/shows?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/theatres/"+uuid.NewString()+"/shows?date="+memory.DemoDate, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
