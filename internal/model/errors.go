package model

import "fmt"

// MalformedDataError reports records that cannot form a valid hourly
// dataset (gaps, duplicates, partial household series).
type MalformedDataError struct {
	Reason string
}

func (e *MalformedDataError) Error() string {
	return "malformed consumption data: " + e.Reason
}

func malformedf(format string, args ...any) *MalformedDataError {
	return &MalformedDataError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidParameterError reports a caller-supplied parameter outside its
// allowed range (weights, bounds, multipliers, targets). Raised before
// any pricing or solver work begins.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// NewInvalidParameterError builds an InvalidParameterError for param
// with a formatted reason.
func NewInvalidParameterError(param, format string, args ...any) *InvalidParameterError {
	return &InvalidParameterError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// ShapeMismatchError reports a price curve whose length does not match
// the dataset time grid. This is an internal consistency bug, not a
// user input problem.
type ShapeMismatchError struct {
	CurveLen int
	GridLen  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("price curve has %d prices, time grid has %d hours", e.CurveLen, e.GridLen)
}
