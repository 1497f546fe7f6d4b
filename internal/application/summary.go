package application

import (
	"encoding/json"
	"time"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
)

// Outcome is the recorded result of processing one account. Failed actions
// stay visible in the report; nothing is suppressed.
type Outcome struct {
	AccountID   domain.AccountID
	DisplayName string
	Email       string
	Result      domain.Result
	Notified    bool
	Deactivated bool
	Err         error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// MarshalJSON flattens Err to its message; the error interface would
// otherwise marshal as an empty object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	var errMsg string
	if o.Err != nil {
		errMsg = o.Err.Error()
	}

	return json.Marshal(struct {
		AccountID   domain.AccountID
		DisplayName string
		Email       string
		Result      domain.Result
		Notified    bool
		Deactivated bool
		Err         string `json:",omitempty"`
	}{
		AccountID:   o.AccountID,
		DisplayName: o.DisplayName,
		Email:       o.Email,
		Result:      o.Result,
		Notified:    o.Notified,
		Deactivated: o.Deactivated,
		Err:         errMsg,
	})
}

// RunSummary accumulates outcomes over one sequential pass. It is owned by
// the run's single thread of control and discarded once the report is sent.
type RunSummary struct {
	StartedAt time.Time
	DryRun    bool
	Outcomes  []Outcome

	Counts      map[domain.Category]int
	Notified    int
	Deactivated int
	Flagged     int
	Errors      int
}

func NewRunSummary(startedAt time.Time, dryRun bool) *RunSummary {
	return &RunSummary{
		StartedAt: startedAt,
		DryRun:    dryRun,
		Counts:    make(map[domain.Category]int),
	}
}

func (s *RunSummary) Record(outcome Outcome) {
	s.Outcomes = append(s.Outcomes, outcome)
	s.Counts[outcome.Result.Category]++

	if outcome.Notified {
		s.Notified++
	}
	if outcome.Deactivated {
		s.Deactivated++
	}
	if outcome.Result.Action == domain.ActionFlag {
		s.Flagged++
	}
	if outcome.Failed() {
		s.Errors++
	}
}

func (s *RunSummary) Processed() int {
	return len(s.Outcomes)
}
