package entities

import "time"

// Stage is a step of the per-scenario pipeline.
type Stage string

const (
	StageInit      Stage = "INIT"
	StageNavigated Stage = "NAVIGATED"
	StageLocated   Stage = "LOCATED"
	StageActed     Stage = "ACTED"
	StageVerified  Stage = "VERIFIED"
	StageClosed    Stage = "CLOSED"
	StageFailed    Stage = "FAILED"
)

var stageTransitions = map[Stage][]Stage{
	StageInit:      {StageNavigated},
	StageNavigated: {StageNavigated, StageLocated},
	StageLocated:   {StageLocated, StageActed, StageVerified},
	StageActed:     {StageActed, StageLocated, StageVerified},
	StageVerified:  {StageVerified, StageNavigated, StageLocated},
	StageFailed:    {StageClosed},
}

// CanTransition reports whether the pipeline may move from s to next.
// FAILED is reachable from every live stage, CLOSED from every stage
// except CLOSED itself.
func (s Stage) CanTransition(next Stage) bool {
	if s == StageClosed {
		return false
	}
	if next == StageClosed {
		return true
	}
	if next == StageFailed {
		return s != StageFailed
	}
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ScenarioStatus is the reported outcome of one scenario.
type ScenarioStatus string

const (
	StatusPassed  ScenarioStatus = "passed"
	StatusFailed  ScenarioStatus = "failed"
	StatusSkipped ScenarioStatus = "skipped"
)

// ScenarioResult records how one scenario ran.
type ScenarioResult struct {
	ID          string         `json:"id"`
	Suite       string         `json:"suite"`
	Name        string         `json:"name"`
	SessionID   string         `json:"session_id,omitempty"`
	Status      ScenarioStatus `json:"status"`
	Stages      []Stage        `json:"stages"`
	Observed    []string       `json:"observed,omitempty"`
	ErrorKind   ErrorKind      `json:"error_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	SkipReason  string         `json:"skip_reason,omitempty"`
	Screenshots []string       `json:"screenshots,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	Duration    time.Duration  `json:"duration"`
}

// FullName is "suite/name", the identifier used by run filters.
func (r ScenarioResult) FullName() string {
	return r.Suite + "/" + r.Name
}

// FinalStage returns the last recorded stage.
func (r ScenarioResult) FinalStage() Stage {
	if len(r.Stages) == 0 {
		return StageInit
	}
	return r.Stages[len(r.Stages)-1]
}

// RunReport is one invocation of the harness.
type RunReport struct {
	ID         string           `json:"id"`
	Backend    Backend          `json:"backend"`
	Browser    BrowserKind      `json:"browser"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Aborted    string           `json:"aborted,omitempty"`
	Results    []ScenarioResult `json:"results"`
}

// Count returns the number of results with the given status.
func (r RunReport) Count(status ScenarioStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Succeeded reports whether the run finished with no failures.
func (r RunReport) Succeeded() bool {
	return r.Aborted == "" && r.Count(StatusFailed) == 0
}
