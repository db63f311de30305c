// Package metrics records build observations. Components take a Recorder and
// default to NoopRecorder; the preview server swaps in PrometheusRecorder.
package metrics

import "time"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks for builds and their stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	SetPages(n int)
	AddOutputs(changed, unchanged, removed int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(Outcome)                    {}
func (NoopRecorder) SetPages(int)                               {}
func (NoopRecorder) AddOutputs(int, int, int)                   {}
