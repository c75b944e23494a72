package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
	"github.com/srgjo27/showtime_booking/internal/core/ports"
	"github.com/srgjo27/showtime_booking/internal/platform/logger"
)

const (
	DefaultPaymentTimeout = 5 * time.Second
	DefaultPublishTimeout = 2 * time.Second
)

// BookingService runs the lock, pay, confirm-or-release protocol against a
// show's SeatLedger. No seat mutex is held while the payment gateway is
// called; the LOCKED status alone keeps other callers away from the seats.
type BookingService struct {
	bookingRepo    ports.BookingRepository
	payments       ports.PaymentGateway
	cache          ports.SeatCache
	events         ports.EventPublisher
	log            *logger.Logger
	paymentTimeout time.Duration
	publishTimeout time.Duration
}

// NewBookingService wires the coordinator. cache and events may be nil, in
// which case seat maps are always read from the ledger and no events are
// published.
func NewBookingService(
	bookingRepo ports.BookingRepository,
	payments ports.PaymentGateway,
	cache ports.SeatCache,
	events ports.EventPublisher,
	log *logger.Logger,
	paymentTimeout time.Duration,
) *BookingService {
	if cache == nil {
		cache = noopSeatCache{}
	}
	if events == nil {
		events = noopEventPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	if paymentTimeout <= 0 {
		paymentTimeout = DefaultPaymentTimeout
	}

	return &BookingService{
		bookingRepo:    bookingRepo,
		payments:       payments,
		cache:          cache,
		events:         events,
		log:            log,
		paymentTimeout: paymentTimeout,
		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublishTimeout bounds how long Reserve waits on the event publisher
// after the seats are BOOKED. Non-positive values keep the default.
func (s *BookingService) WithPublishTimeout(d time.Duration) *BookingService {
	if d > 0 {
		s.publishTimeout = d
	}
	return s
}

// Reserve books seatIDs of show for user. It returns ErrInvalidRequest for an
// empty or repeated selection, ErrInvalidSeat for seats the show does not
// have, ErrSeatsUnavailable when another caller holds any of the seats and
// ErrPaymentFailed when the charge is declined, errors or times out. Seats
// are back to AVAILABLE before ErrPaymentFailed is returned.
func (s *BookingService) Reserve(ctx context.Context, user domain.User, show *domain.Show, seatIDs []domain.SeatID) (*domain.Booking, error) {
	if show == nil || show.Ledger == nil {
		return nil, domain.ErrShowNotFound
	}

	if err := validateSelection(seatIDs); err != nil {
		return nil, err
	}

	locked, err := show.Ledger.TryLock(seatIDs)
	if err != nil {
		return nil, fmt.Errorf("lock seats: %w", err)
	}

	if !locked {
		s.log.Info("Seats unavailable", "show_id", show.ID, "user_id", user.ID, "seat_ids", seatIDs)
		return nil, fmt.Errorf("%w: %v", domain.ErrSeatsUnavailable, seatIDs)
	}

	s.invalidate(ctx, show.ID)

	confirmed := false
	defer func() {
		if confirmed {
			return
		}

		if err := show.Ledger.Release(seatIDs); err != nil {
			s.log.Error("Failed to release seats", "show_id", show.ID, "seat_ids", seatIDs, "error", err)
		}

		s.invalidate(ctx, show.ID)
	}()

	amount := show.Price(len(seatIDs))

	payment, err := s.charge(ctx, user, amount)
	if err != nil {
		s.log.Warn("Payment error, seats released", "show_id", show.ID, "user_id", user.ID, "amount_cents", amount, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}

	if !payment.Succeeded() {
		s.log.Info("Payment declined, seats released", "show_id", show.ID, "user_id", user.ID, "amount_cents", amount)
		return nil, fmt.Errorf("%w: charge of %d cents declined", domain.ErrPaymentFailed, amount)
	}

	if err := show.Ledger.Confirm(seatIDs); err != nil {
		return nil, fmt.Errorf("confirm seats: %w", err)
	}
	confirmed = true

	s.invalidate(ctx, show.ID)

	booking := domain.NewBooking(user, show, seatIDs, *payment)

	if err := s.bookingRepo.Insert(ctx, booking); err != nil {
		s.log.Error("Failed to store booking", "booking_id", booking.ID, "show_id", show.ID, "error", err)
		return nil, fmt.Errorf("store booking: %w", err)
	}

	s.publish(ctx, booking, show)

	s.log.Info("Booking confirmed",
		"booking_id", booking.ID,
		"show_id", show.ID,
		"user_id", user.ID,
		"seat_ids", booking.SeatIDs,
		"amount_cents", booking.AmountCents,
	)

	return booking.Clone(), nil
}

// charge calls the gateway under the payment timeout. A gateway that answers
// after the deadline is still treated as failed.
func (s *BookingService) charge(ctx context.Context, user domain.User, amount int64) (*domain.Payment, error) {
	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	payment, err := s.payments.Charge(payCtx, user, amount)
	if err != nil {
		return nil, err
	}

	if err := payCtx.Err(); err != nil {
		return nil, err
	}

	return payment, nil
}

// publish is best effort. The booking is already paid for, so neither a
// cancelled request nor a stalled broker may hold the response past
// publishTimeout.
func (s *BookingService) publish(ctx context.Context, booking *domain.Booking, show *domain.Show) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.events.PublishBookingConfirmed(pubCtx, booking, show); err != nil {
		s.log.Warn("Failed to publish booking confirmed event", "booking_id", booking.ID, "error", err)
	}
}

func (s *BookingService) invalidate(ctx context.Context, showID uuid.UUID) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), showID); err != nil {
		s.log.Warn("Failed to invalidate seat cache", "show_id", showID, "error", err)
	}
}

func validateSelection(seatIDs []domain.SeatID) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: no seats selected", domain.ErrInvalidRequest)
	}

	seen := make(map[domain.SeatID]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: seat %d selected twice", domain.ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func (s *BookingService) Booking(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}

	return booking, nil
}

func (s *BookingService) BookingsForUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}

	bookings, err := s.bookingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find bookings for user: %w", err)
	}

	return bookings, nil
}

// SeatMap returns the seats of show, preferring the cached copy. The result is
// advisory; only TryLock decides availability. A snapshot is written back to
// the cache only when no seat changed between the cache miss and the end of
// the snapshot, so a read racing a reservation cannot re-cache the map the
// reservation just invalidated. A change landing between that check and the
// cache write can still be cached until the next invalidation or
// SEAT_CACHE_TTL.
func (s *BookingService) SeatMap(ctx context.Context, show *domain.Show) ([]domain.SeatView, error) {
	if show == nil || show.Ledger == nil {
		return nil, domain.ErrShowNotFound
	}

	version := show.Ledger.Version()

	seats, ok, err := s.cache.Get(ctx, show.ID)
	if err != nil {
		s.log.Warn("Seat cache read failed", "show_id", show.ID, "error", err)
	}
	if ok {
		return seats, nil
	}

	seats = show.Ledger.Snapshot()

	if show.Ledger.Version() != version {
		s.log.Debug("Seat map changed during read, not caching", "show_id", show.ID)
		return seats, nil
	}

	if err := s.cache.Set(ctx, show.ID, seats); err != nil {
		s.log.Warn("Seat cache write failed", "show_id", show.ID, "error", err)
	}

	return seats, nil
}

type noopSeatCache struct{}

func (noopSeatCache) Get(context.Context, uuid.UUID) ([]domain.SeatView, bool, error) {
	return nil, false, nil
}

func (noopSeatCache) Set(context.Context, uuid.UUID, []domain.SeatView) error { return nil }

func (noopSeatCache) Invalidate(context.Context, uuid.UUID) error { return nil }

type noopEventPublisher struct{}

func (noopEventPublisher) PublishBookingConfirmed(context.Context, *domain.Booking, *domain.Show) error {
	return nil
}
