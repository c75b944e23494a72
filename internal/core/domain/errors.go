package domain

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid seat selection")
	ErrInvalidSeat      = errors.New("seat not found")
	ErrSeatsUnavailable = errors.New("seats not available")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrSeatNotLocked    = errors.New("seat is not locked")

	ErrShowNotFound     = errors.New("show not found")
	ErrTheatreNotFound  = errors.New("theatre not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateBooking = errors.New("booking already exists")
)
