package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/srgjo27/showtime_booking/internal/platform/logger"
)

func NewRouter(h *BookingHandler, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))

	r.Get("/health", HealthCheck)

	r.Get("/movies", h.ListMovies)
	r.Get("/theatres", h.ListTheatres)
	r.Get("/theatres/{theatreID}/shows", h.ListShows)

	r.Route("/shows/{showID}", func(r chi.Router) {
		r.Get("/seats", h.GetSeats)
		r.Post("/bookings", h.CreateBooking)
	})

	r.Get("/bookings/{bookingID}", h.GetBooking)
	r.Get("/users/{userID}/bookings", h.ListUserBookings)

	return r
}

// RequestLogger writes one access log record per request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
