package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/services"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
)

type CreateBookingRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	UserName string `json:"user_name" validate:"max=128"`
	SeatIDs  []int  `json:"seat_ids" validate:"required,min=1,max=50,dive,gt=0"`
}

type BookingResponse struct {
	BookingID   string          `json:"booking_id"`
	ShowID      string          `json:"show_id"`
	UserID      string          `json:"user_id"`
	SeatIDs     []domain.SeatID `json:"seat_ids"`
	AmountCents int64           `json:"amount_cents"`
	PaymentID   string          `json:"payment_id"`
	CreatedAt   string          `json:"created_at"`
}

type ShowResponse struct {
	ShowID         string `json:"show_id"`
	Movie          string `json:"movie"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ScreenID       int    `json:"screen_id"`
	SeatPriceCents int64  `json:"seat_price_cents"`
	AvailableSeats int    `json:"available_seats"`
}

type TheatreResponse struct {
	TheatreID string `json:"theatre_id"`
	Name      string `json:"name"`
	City      string `json:"city"`
}

type browseQuery struct {
	City  string `validate:"required,oneof=BENGALURU PUNE"`
	Movie string `validate:"max=128"`
	Date  string `validate:"required,datetime=2006-01-02"`
}

type BookingHandler struct {
	bookings *services.BookingService
	catalog  *services.CatalogService
	validate *validator.Validate
	log      *logger.Logger
}

func NewBookingHandler(bookings *services.BookingService, catalog *services.CatalogService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		catalog:  catalog,
		validate: validator.New(),
		log:      log,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	showID, ok := h.pathUUID(w, r, "showID")
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	show, err := h.catalog.Show(r.Context(), showID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	seatIDs := make([]domain.SeatID, len(req.SeatIDs))
	for i, id := range req.SeatIDs {
		seatIDs[i] = domain.SeatID(id)
	}

	user := domain.User{ID: req.UserID, Name: req.UserName}

	booking, err := h.bookings.Reserve(r.Context(), user, show, seatIDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	showID, ok := h.pathUUID(w, r, "showID")
	if !ok {
		return
	}

	show, err := h.catalog.Show(r.Context(), showID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	seats, err := h.bookings.SeatMap(r.Context(), show)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, seats)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	booking, err := h.bookings.Booking(r.Context(), bookingID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.BookingsForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	q, ok := h.browseQuery(w, r)
	if !ok {
		return
	}

	movies, err := h.catalog.Movies(r.Context(), domain.City(q.City), q.Date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

func (h *BookingHandler) ListTheatres(w http.ResponseWriter, r *http.Request) {
	q, ok := h.browseQuery(w, r)
	if !ok {
		return
	}

	theatres, err := h.catalog.Theatres(r.Context(), domain.City(q.City), q.Movie, q.Date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]TheatreResponse, 0, len(theatres))
	for _, t := range theatres {
		resp = append(resp, TheatreResponse{TheatreID: t.ID.String(), Name: t.Name, City: string(t.City)})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) ListShows(w http.ResponseWriter, r *http.Request) {
	theatreID, ok := h.pathUUID(w, r, "theatreID")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	shows, err := h.catalog.Shows(r.Context(), theatreID, r.URL.Query().Get("movie"), date)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]ShowResponse, 0, len(shows))
	for _, s := range shows {
		resp = append(resp, ShowResponse{
			ShowID:         s.ID.String(),
			Movie:          s.Movie.Name,
			Date:           s.Date,
			Time:           s.Time,
			ScreenID:       s.ScreenID,
			SeatPriceCents: s.SeatPriceCents,
			AvailableSeats: s.Ledger.Available(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) browseQuery(w http.ResponseWriter, r *http.Request) (browseQuery, bool) {
	q := browseQuery{
		City:  strings.ToUpper(r.URL.Query().Get("city")),
		Movie: r.URL.Query().Get("movie"),
		Date:  r.URL.Query().Get("date"),
	}

	if err := h.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query: "+err.Error())
		return q, false
	}

	return q, true
}

func (h *BookingHandler) pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}

func (h *BookingHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidSeat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSeatsUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPaymentFailed):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrShowNotFound),
		errors.Is(err, domain.ErrTheatreNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:   b.ID.String(),
		ShowID:      b.ShowID.String(),
		UserID:      b.UserID,
		SeatIDs:     b.SeatIDs,
		AmountCents: b.AmountCents,
		PaymentID:   b.Payment.ID.String(),
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
