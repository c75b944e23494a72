package domain

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

type seatSlot struct {
	mu     sync.Mutex
	seat   Seat
	status SeatStatus
}

// SeatLedger is the authoritative seat state of a single show. Every seat owns
// its own mutex; multi-seat operations acquire the mutexes in ascending SeatID
// order and hold them only while the state is checked and written.
//
// The LOCKED status is the ownership token handed to the caller of a
// successful TryLock. Only that caller may Confirm or Release the seats.
type SeatLedger struct {
	slots map[SeatID]*seatSlot
	order []SeatID

	// version is bumped on every state change.
	version atomic.Uint64
}

// NewSeatLedger returns a ledger with every seat AVAILABLE. Repeated seat IDs
// are collapsed to the first occurrence.
func NewSeatLedger(seats []Seat) *SeatLedger {
	l := &SeatLedger{slots: make(map[SeatID]*seatSlot, len(seats))}
	for _, seat := range seats {
		if _, ok := l.slots[seat.ID]; ok {
			continue
		}
		l.slots[seat.ID] = &seatSlot{seat: seat, status: SeatAvailable}
		l.order = append(l.order, seat.ID)
	}
	slices.Sort(l.order)

	return l
}

// TryLock moves every seat in seatIDs from AVAILABLE to LOCKED, or none of
// them. Losing to another caller is reported as false with a nil error and
// leaves all seats untouched.
func (l *SeatLedger) TryLock(seatIDs []SeatID) (bool, error) {
	slots, unlock, err := l.acquire(seatIDs)
	if err != nil {
		return false, err
	}
	defer unlock()

	for _, slot := range slots {
		if slot.status != SeatAvailable {
			return false, nil
		}
	}

	for _, slot := range slots {
		slot.status = SeatLocked
	}
	l.version.Add(1)

	return true, nil
}

// Confirm moves seats the caller locked to BOOKED.
func (l *SeatLedger) Confirm(seatIDs []SeatID) error {
	return l.transition(seatIDs, SeatLocked, SeatBooked)
}

// Release hands seats the caller locked back to AVAILABLE.
func (l *SeatLedger) Release(seatIDs []SeatID) error {
	return l.transition(seatIDs, SeatLocked, SeatAvailable)
}

func (l *SeatLedger) transition(seatIDs []SeatID, from, to SeatStatus) error {
	slots, unlock, err := l.acquire(seatIDs)
	if err != nil {
		return err
	}
	defer unlock()

	for _, slot := range slots {
		if slot.status != from {
			return fmt.Errorf("%w: seat %d is %s", ErrSeatNotLocked, slot.seat.ID, slot.status)
		}
	}

	for _, slot := range slots {
		slot.status = to
	}
	l.version.Add(1)

	return nil
}

// acquire validates seatIDs and locks the matching seat mutexes in ascending
// ID order. Nothing is locked when an error is returned.
func (l *SeatLedger) acquire(seatIDs []SeatID) ([]*seatSlot, func(), error) {
	if len(seatIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: no seats selected", ErrInvalidRequest)
	}

	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)

	slots := make([]*seatSlot, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			return nil, nil, fmt.Errorf("%w: seat %d selected twice", ErrInvalidRequest, id)
		}

		slot, ok := l.slots[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrInvalidSeat, id)
		}

		slots = append(slots, slot)
	}

	for _, slot := range slots {
		slot.mu.Lock()
	}

	unlock := func() {
		for i := len(slots) - 1; i >= 0; i-- {
			slots[i].mu.Unlock()
		}
	}

	return slots, unlock, nil
}

// Version changes whenever any seat changes status. Two equal readings around
// a Snapshot mean no seat moved while it was taken.
func (l *SeatLedger) Version() uint64 {
	return l.version.Load()
}

func (l *SeatLedger) Status(seatID SeatID) (SeatStatus, error) {
	slot, ok := l.slots[seatID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidSeat, seatID)
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return slot.status, nil
}

// Snapshot reads each seat under its own mutex, so seats of a concurrent
// multi-seat transition may be observed on either side of it.
func (l *SeatLedger) Snapshot() []SeatView {
	views := make([]SeatView, 0, len(l.order))
	for _, id := range l.order {
		slot := l.slots[id]

		slot.mu.Lock()
		views = append(views, SeatView{ID: slot.seat.ID, Category: slot.seat.Category, Status: slot.status})
		slot.mu.Unlock()
	}

	return views
}

func (l *SeatLedger) Available() int {
	n := 0
	for _, view := range l.Snapshot() {
		if view.IsAvailable() {
			n++
		}
	}

	return n
}

func (l *SeatLedger) Len() int {
	return len(l.order)
}
