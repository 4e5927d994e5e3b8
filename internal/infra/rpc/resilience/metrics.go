package resilience

// StopFunc ends a timing started by MetricsSink.StartTimer and records it
// under the given operation name.
type StopFunc func(function string)

// MetricsSink records call durations keyed by operation name.
type MetricsSink interface {
	StartTimer() StopFunc
}

type nopSink struct{}

func (nopSink) StartTimer() StopFunc { return func(string) {} }
