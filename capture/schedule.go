// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import "fmt"

// DefaultBaseName names screenshots queued without a name.
const DefaultBaseName = "ScreenShot"

// Request is a queued screenshot.
type Request struct {
	Delay  int    // updates left to wait
	Frames int    // captures to take
	Name   string // base name; empty means DefaultBaseName
	Taken  int    // captures taken so far
}

// Scheduler tracks queued requests.
type Scheduler struct {
	requests []*Request
}

// Queue adds a request for frames captures after delay updates. At least
// one capture is taken.
func (s *Scheduler) Queue(delay, frames int, name string) {
	s.requests = append(s.requests, &Request{
		Delay:  max(delay, 0),
		Frames: max(frames, 1),
		Name:   name,
	})
}

// Len returns the number of requests still queued.
func (s *Scheduler) Len() int { return len(s.requests) }

// Due advances every request by one update and returns the base names to
// capture now, in queue order. Finished requests are removed.
func (s *Scheduler) Due() []string {
	var names []string
	kept := s.requests[:0]
	for _, r := range s.requests {
		if r.Delay > 0 {
			r.Delay--
			kept = append(kept, r)
			continue
		}
		r.Taken++
		name := r.Name
		if name == "" {
			name = DefaultBaseName
		}
		names = append(names, name)
		if r.Taken < r.Frames {
			kept = append(kept, r)
		}
	}
	clear(s.requests[len(kept):])
	s.requests = kept
	return names
}

// FileName returns the file a capture of frame is stored as.
func FileName(base string, frame uint64) string {
	return fmt.Sprintf("%s-%06d.png", base, frame)
}
