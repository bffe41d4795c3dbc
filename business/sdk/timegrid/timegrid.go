// Package timegrid generates the candidate start times for one working day.
// The grid is pure arithmetic on minutes-of-day: persistence and worker
// configuration stay out of this package.
package timegrid

import (
	"fmt"

	"github.com/jcpaschoal/agendex/business/types/clock"
)

// Grid describes one day's candidate slot generation.
type Grid struct {
	Open        clock.Time
	Close       clock.Time
	StepMinutes int
	SpanMinutes int
}

// Generate returns the ordered start times in [Open, Close) at StepMinutes
// intervals. A start is included only when start+SpanMinutes still fits
// before Close, so a day whose length is not an exact multiple of the step
// never yields a slot running past closing.
func Generate(g Grid) ([]clock.Time, error) {
	if g.StepMinutes <= 0 {
		return nil, fmt.Errorf("step must be positive: %d", g.StepMinutes)
	}

	if g.SpanMinutes <= 0 {
		return nil, fmt.Errorf("span must be positive: %d", g.SpanMinutes)
	}

	open := g.Open.Minutes()
	close := g.Close.Minutes()

	if close <= open {
		return nil, fmt.Errorf("closing %s not after opening %s", g.Close, g.Open)
	}

	var starts []clock.Time
	for start := open; start+g.SpanMinutes <= close; start += g.StepMinutes {
		t, err := clock.FromMinutes(start)
		if err != nil {
			return nil, fmt.Errorf("start out of day: %w", err)
		}

		starts = append(starts, t)
	}

	return starts, nil
}
