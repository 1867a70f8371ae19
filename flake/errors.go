package flake

import (
	"errors"
	"fmt"
	"strconv"
)

// Configuration faults.
var (
	ErrFieldWidthMismatch   = errors.New("bit widths must total 64")
	ErrBaseExceedsWidth     = errors.New("base timestamp exceeds timestamp field capacity")
	ErrNodeExceedsWidth     = errors.New("node exceeds node field capacity")
	ErrPoolSizeExceedsWidth = errors.New("pool size exceeds pool field capacity")
	ErrInvalidPoolSize      = errors.New("pool size must be positive")
)

// Runtime faults, fatal to a single Generate call.
var (
	ErrClockBeforeEpoch  = errors.New("clock reading is at or before base timestamp")
	ErrClockRegression   = errors.New("clock moved backwards")
	ErrSequenceExhausted = errors.New("sequence exhausted within tick")
	ErrTimestampOverflow = errors.New("elapsed time exceeds timestamp field capacity")
)

// ErrDeliveryFailed is returned by pooled and actor generators when a
// request could not be delivered or its reply never arrived.
var ErrDeliveryFailed = errors.New("delivery failed")

// ErrIDOutOfRange is returned by textual encodings defined only for ids below 2^63.
var ErrIDOutOfRange = errors.New("id out of range")

// OptionsError reports a rejected configuration assignment.
type OptionsError struct {
	Name string
	Err  error
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("flake.Options: invalid option %s, reason: %s", strconv.Quote(e.Name), e.Err)
}

func (e *OptionsError) Unwrap() error {
	return e.Err
}

func invalidOption(name string, err error) *OptionsError {
	return &OptionsError{Name: name, Err: err}
}

// GenerateError reports a runtime fault together with the clock readings
// that caused it.
type GenerateError struct {
	Now  uint64
	Last uint64
	Err  error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("flake.Generate: %s (now=%d, last=%d)", e.Err, e.Now, e.Last)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}
