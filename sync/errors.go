package sync

import (
	"errors"
	"fmt"
)

// ErrEmptySource is returned when the unit sheet holds no rows beyond its header.
var ErrEmptySource = errors.New("source sheet empty")

// ForwardError wraps a failure to build or send the payload for a single unit.
type ForwardError struct {
	UnitID string
	Err    error
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("failed to forward unit %s: %v", e.UnitID, e.Err)
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

// SheetsError is the error body returned by the Sheets values API.
type SheetsError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// FieldWorkError is the error body returned by FieldWork HQ, which has no fixed shape.
type FieldWorkError map[string]interface{}
