package orchestrator

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Step statuses recorded in the run report.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// StepResult records the outcome of one step in a run.
type StepResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Report is the summary of a setup or teardown run, ready for JSON
// output.
type Report struct {
	Action    string       `json:"action"`
	StartTime time.Time    `json:"startTime"`
	EndTime   time.Time    `json:"endTime"`
	Steps     []StepResult `json:"steps"`
}

func newReport(action string) *Report {
	return &Report{Action: action, StartTime: time.Now()}
}

func (r *Report) finish() {
	r.EndTime = time.Now()
}

func (r *Report) add(result StepResult) {
	r.Steps = append(r.Steps, result)
}

// Failed returns the first failed step, if any.
func (r *Report) Failed() (StepResult, bool) {
	for _, step := range r.Steps {
		if step.Status == StatusFailed {
			return step, true
		}
	}
	return StepResult{}, false
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() (string, error) {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(raw), nil
}

// String renders a human-readable summary, one line per step.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s completed in %s\n", r.Action, r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
	for _, step := range r.Steps {
		fmt.Fprintf(&b, "  %-22s %-8s %s", step.Name, step.Status, step.Duration.Round(time.Millisecond))
		if step.Error != "" {
			fmt.Fprintf(&b, "  %s", step.Error)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
