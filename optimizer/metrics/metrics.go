package metrics

import "time"

// Recorder abstracts metric emission so the optimizer core never depends on a
// concrete backend. The noop implementation is the default.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
	ObserveDuration(name string, duration time.Duration, labels map[string]string)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                      {}
func (NoopRecorder) SetGauge(string, float64, map[string]string)               {}
func (NoopRecorder) ObserveDuration(string, time.Duration, map[string]string)  {}
