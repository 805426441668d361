package hebdate

import (
	"errors"
	"fmt"
)

var (
	// ErrConversionFailed is returned when the calendar engine cannot convert a date.
	ErrConversionFailed = errors.New("hebrew date conversion failed")

	ErrInvalidDay   = errors.New("day out of range for hebrew month")
	ErrInvalidMonth = errors.New("hebrew month out of range")
	ErrInvalidYear  = errors.New("hebrew year out of range")

	// ErrInvalidDate is returned when a Gregorian input cannot be parsed.
	ErrInvalidDate = errors.New("invalid gregorian date")
)

// ConversionError records the operation and input that failed.
// It matches both ErrConversionFailed and the underlying reason with errors.Is.
type ConversionError struct {
	Op   string
	Date string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Date, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversionFailed, e.Err}
}

func convErr(op, date string, err error) error {
	return &ConversionError{Op: op, Date: date, Err: err}
}
