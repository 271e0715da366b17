package model

import "errors"

var (
	// ErrUnknownParticipant is returned when an OTC contract names an id the market does not hold.
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrInvalidPriceBounds is returned when min_price > max_price or a bound is negative.
	ErrInvalidPriceBounds = errors.New("invalid price bounds")
	// ErrDuplicateParticipant is returned when two participants share an id.
	ErrDuplicateParticipant = errors.New("duplicate participant id")
)
