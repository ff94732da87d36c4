package sync

import (
	"errors"
	"fmt"
	"net/http"
)

// State is a step of a single sync run.
type State int

const (
	StateStart State = iota
	StateLoadingPrimary
	StateNoData
	StateDetecting
	StateNoCandidates
	StateLoadingSecondary
	StateResolving
	StateForwarding
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateStart:            "START",
	StateLoadingPrimary:   "LOADING_PRIMARY",
	StateNoData:           "NO_DATA",
	StateDetecting:        "DETECTING",
	StateNoCandidates:     "NO_CANDIDATES",
	StateLoadingSecondary: "LOADING_SECONDARY",
	StateResolving:        "RESOLVING",
	StateForwarding:       "FORWARDING",
	StateDone:             "DONE",
	StateFailed:           "FAILED",
}

func (s State) String() string {
	if name, exists := stateNames[s]; exists {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal reports whether a run ends in s.
func (s State) IsTerminal() bool {
	switch s {
	case StateNoData, StateNoCandidates, StateDone, StateFailed:
		return true
	}
	return false
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of a sync run. State tells the variants apart:
// StateNoData and StateFailed are errors, StateNoCandidates and StateDone are successes.
type Result struct {
	State          State  `json:"-"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	ForwardedCount *int   `json:"forwarded_count,omitempty"`
	CandidateCount *int   `json:"candidate_count,omitempty"`
	err            error
}

func emptySourceResult(sheet string) Result {
	return Result{
		State:   StateNoData,
		Status:  StatusError,
		Message: fmt.Sprintf("%s sheet empty", sheet),
		err:     ErrEmptySource,
	}
}

func noCandidatesResult() Result {
	return Result{
		State:   StateNoCandidates,
		Status:  StatusSuccess,
		Message: "No recent updates",
	}
}

func doneResult(forwarded, candidates int) Result {
	return Result{
		State:          StateDone,
		Status:         StatusSuccess,
		Message:        fmt.Sprintf("Synced %d of %d units", forwarded, candidates),
		ForwardedCount: &forwarded,
		CandidateCount: &candidates,
	}
}

// failedResult keeps the unit that failed out of the message, Err still carries it.
func failedResult(err error) Result {
	cause := err
	var forwardErr *ForwardError
	if errors.As(err, &forwardErr) && forwardErr.Err != nil {
		cause = forwardErr.Err
	}
	return Result{
		State:   StateFailed,
		Status:  StatusError,
		Message: cause.Error(),
		err:     err,
	}
}

func (r Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Err returns the cause of an error result, nil on success.
func (r Result) Err() error {
	return r.err
}

// Forwarded returns the number of units sent downstream.
func (r Result) Forwarded() int {
	if r.ForwardedCount == nil {
		return 0
	}
	return *r.ForwardedCount
}

// Candidates returns the number of recently changed units, zero unless the run completed.
func (r Result) Candidates() int {
	if r.CandidateCount == nil {
		return 0
	}
	return *r.CandidateCount
}

// HTTPStatus maps the result to the status code of the trigger endpoint.
func (r Result) HTTPStatus() int {
	switch r.State {
	case StateNoData:
		return http.StatusBadRequest
	case StateNoCandidates, StateDone:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
