package search

import "time"

// Debouncer models the quiet period between the last keystroke and the
// issued search. Every keystroke arms a new sequence token; when the timer
// for a token fires, the query is issued only if the token is still current.
// A superseding keystroke voids the previous timer by advancing the token,
// not by cancelling anything in flight.
type Debouncer struct {
	seq   int
	quiet time.Duration
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &Debouncer{quiet: quiet}
}

// Arm registers a new pending query and returns its token.
func (d *Debouncer) Arm() int {
	d.seq++
	return d.seq
}

// Current reports whether the token is still the latest armed one.
func (d *Debouncer) Current(token int) bool {
	return token == d.seq
}

// Cancel voids any pending token without arming a new one.
func (d *Debouncer) Cancel() {
	d.seq++
}

func (d *Debouncer) Quiet() time.Duration {
	return d.quiet
}
