package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/showtime_booking/internal/core/domain"
)

type Config struct {
	// Latency is how long every charge takes.
	Latency time.Duration
	// LimitCents declines any charge above it. Zero means no limit.
	LimitCents   int64
	DeclineUsers []string
}

// Simulator stands in for a payment provider. It approves every charge except
// for users on the decline list and amounts above the limit.
type Simulator struct {
	latency  time.Duration
	limit    int64
	declined map[string]struct{}
}

func NewSimulator(cfg Config) *Simulator {
	declined := make(map[string]struct{}, len(cfg.DeclineUsers))
	for _, id := range cfg.DeclineUsers {
		declined[id] = struct{}{}
	}

	return &Simulator{
		latency:  cfg.Latency,
		limit:    cfg.LimitCents,
		declined: declined,
	}
}

func (s *Simulator) Charge(ctx context.Context, user domain.User, amountCents int64) (*domain.Payment, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		AmountCents: amountCents,
		Status:      domain.PaymentSuccess,
	}

	if _, ok := s.declined[user.ID]; ok {
		payment.Status = domain.PaymentFailed
	}
	if s.limit > 0 && amountCents > s.limit {
		payment.Status = domain.PaymentFailed
	}

	return payment, nil
}
