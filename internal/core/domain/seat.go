package domain

type SeatID int

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatLocked    SeatStatus = "LOCKED"
	SeatBooked    SeatStatus = "BOOKED"
)

type SeatCategory string

const (
	SeatNormal  SeatCategory = "NORMAL"
	SeatPremium SeatCategory = "PREMIUM"
)

type Seat struct {
	ID       SeatID
	Category SeatCategory
}

// SeatView is a point-in-time copy of one seat of a show.
type SeatView struct {
	ID       SeatID       `json:"seat_id"`
	Category SeatCategory `json:"category"`
	Status   SeatStatus   `json:"status"`
}

func (s SeatView) IsAvailable() bool {
	return s.Status == SeatAvailable
}
