package model

import "errors"

var (
	// ErrInsufficientData means the candle window is too short for the configured periods.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidConfiguration means a period, weight or threshold is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrNonFinite means an indicator overflowed to NaN or Inf on extreme inputs.
	ErrNonFinite = errors.New("non-finite indicator value")
)
