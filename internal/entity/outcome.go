package entity

import "fmt"

type OutcomeKind string

const (
	OutcomeVisited    OutcomeKind = "visited"
	OutcomeInvalidURL OutcomeKind = "skipped_invalid_url"
	OutcomeFailed     OutcomeKind = "failed"
)

// Outcome is the result of a single visit. Err is set for skipped and failed
// visits and wraps one of the sentinel errors.
type Outcome struct {
	URL        string
	Kind       OutcomeKind
	StatusCode int
	Err        error
}

func Visited(url string, code int) Outcome {
	return Outcome{URL: url, Kind: OutcomeVisited, StatusCode: code}
}

func SkippedInvalidURL(url string, err error) Outcome {
	return Outcome{URL: url, Kind: OutcomeInvalidURL, Err: err}
}

func Failed(url string, err error) Outcome {
	return Outcome{URL: url, Kind: OutcomeFailed, Err: err}
}

// Problem reports whether the outcome deserves an alert: a failed request or a
// response other than 200.
func (o Outcome) Problem() bool {
	switch o.Kind {
	case OutcomeFailed:
		return true
	case OutcomeVisited:
		return o.StatusCode != 200
	}
	return false
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeVisited:
		return fmt.Sprintf("%s: status %d", o.URL, o.StatusCode)
	default:
		return fmt.Sprintf("%s: %s (%v)", o.URL, o.Kind, o.Err)
	}
}
