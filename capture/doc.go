// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture schedules, encodes and stores screenshots.
//
// A request waits out its delay in frame updates, then asks for one capture
// per update until it has taken the requested number of frames. Captures
// read the backend's bottom-up pixels, flip them, and encode an RGBA8 PNG
// carrying a Creator text chunk. Encoded images wait in a ready queue and
// are written to the save filesystem one per Flush, so a burst of captures
// never stalls a frame with several writes.
package capture
