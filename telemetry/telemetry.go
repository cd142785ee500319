// Package telemetry records per-frame values into bounded traces.
//
// Values traced during a frame become one sample per trace at Update.
// Traces without a value that frame get a gap, so every trace advances in
// step and samples line up by frame.
package telemetry

import (
	"slices"
	"sync"
)

// DefaultMaximumLength is the number of samples a trace keeps.
const DefaultMaximumLength = 1000

// Sample is one frame of a trace. OK is false for frames without a value.
type Sample struct {
	Value float64
	OK    bool
}

type trace struct {
	samples []Sample
	current Sample
}

// Recorder holds named traces. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	maxLen int
	traces map[string]*trace
}

// New returns an empty recorder keeping DefaultMaximumLength samples.
func New() *Recorder {
	return &Recorder{maxLen: DefaultMaximumLength, traces: make(map[string]*trace)}
}

// SetMaximumLength changes the number of samples kept. It applies at the
// next Update.
func (r *Recorder) SetMaximumLength(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxLen = max(n, 0)
}

// Trace sets the value of name for the current frame. A later call in the
// same frame wins.
func (r *Recorder) Trace(name string, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.traces[name]
	if !ok {
		t = &trace{}
		r.traces[name] = t
	}
	t.current = Sample{Value: v, OK: true}
}

// Update closes the frame: every trace gains its current value or a gap.
func (r *Recorder) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.traces {
		t.samples = append(t.samples, t.current)
		t.current = Sample{}
		if over := len(t.samples) - r.maxLen; over > 0 {
			t.samples = slices.Delete(t.samples, 0, over)
		}
	}
}

// Get returns a copy of the samples of name, oldest first.
func (r *Recorder) Get(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.traces[name]
	if !ok {
		return nil
	}
	return slices.Clone(t.samples)
}

// Names returns the trace names in sorted order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.traces))
	for n := range r.traces {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
