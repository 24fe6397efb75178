package parser

import "errors"

// ErrNoWorksheet is returned when a decoded workbook holds zero worksheets.
var ErrNoWorksheet = errors.New("workbook has no worksheets")

// DecodeError wraps a failure to decode raw bytes into a workbook.
// It is fatal: no partial result accompanies it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode workbook: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
