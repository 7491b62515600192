package ostinato

import (
	"errors"

	Mt "github.com/maroda/ostinato/types"
)

// Result is what every operation returns to its caller.
// Only the payload fields relevant to the operation are set.
type Result struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`

	Pattern              *Mt.Pattern         `json:"pattern,omitempty"`
	PatternName          string              `json:"patternName,omitempty"`
	RemainingPatterns    []string            `json:"remainingPatterns,omitempty"`
	Track                *Mt.InstrumentTrack `json:"track,omitempty"`
	RemainingInstruments []string            `json:"remainingInstruments,omitempty"`
	Timeline             []string            `json:"timeline,omitempty"`
	TotalSections        int                 `json:"totalSections,omitempty"`
	Summary              string              `json:"summary,omitempty"`
}

func ok(msg string) Result {
	return Result{Success: true, Status: StatusOK, Message: msg}
}

// failure converts an operation error into a Result.
// Persistence and unexpected errors are reported as "Error: <cause>".
func failure(err error) Result {
	var oe *OpError
	switch {
	case errors.As(err, &oe) && errors.Is(oe.Kind, ErrNoOp):
		return Result{Status: StatusUnchanged, Message: oe.Msg}
	case errors.As(err, &oe) && errors.Is(oe.Kind, ErrValidation):
		return Result{Status: StatusError, Message: oe.Msg}
	default:
		return Result{Status: StatusError, Message: "Error: " + err.Error()}
	}
}
