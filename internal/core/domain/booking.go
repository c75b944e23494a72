package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	ID          uuid.UUID
	AmountCents int64
	Status      PaymentStatus
}

func (p *Payment) Succeeded() bool {
	return p != nil && p.Status == PaymentSuccess
}

type User struct {
	ID   string
	Name string
}

// Booking is the receipt of a confirmed reservation. It never changes after
// creation; registries store and return copies.
type Booking struct {
	ID          uuid.UUID
	UserID      string
	ShowID      uuid.UUID
	SeatIDs     []SeatID
	AmountCents int64
	Payment     Payment
	CreatedAt   time.Time
}

func NewBooking(user User, show *Show, seatIDs []SeatID, payment Payment) *Booking {
	seats := slices.Clone(seatIDs)
	slices.Sort(seats)

	return &Booking{
		ID:          uuid.New(),
		UserID:      user.ID,
		ShowID:      show.ID,
		SeatIDs:     seats,
		AmountCents: payment.AmountCents,
		Payment:     payment,
		CreatedAt:   time.Now().UTC(),
	}
}

func (b *Booking) Clone() *Booking {
	c := *b
	c.SeatIDs = slices.Clone(b.SeatIDs)
	return &c
}
