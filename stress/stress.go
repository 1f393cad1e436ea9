// This file is part of makecurrent.
//
// makecurrent is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// makecurrent is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with makecurrent.  If not, see <https://www.gnu.org/licenses/>.

// Package stress contends for a single context from many goroutines and
// checks that the guarded sections never overlap in time.
package stress

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/makecurrent/glcontext"
)

// Config for Run().
type Config struct {
	Workers    int
	Iterations int
}

// Span is a single guarded section.
type Span struct {
	Worker int
	Thread glcontext.ThreadID
	Start  time.Time
	End    time.Time
}

// Report is the result of a call to Run().
type Report struct {
	// number of guarded sections completed
	Sections int

	// number of times a section began while another was running. measured
	// with a counter inside the section
	Concurrent int

	// number of sections whose recorded span overlaps an earlier span
	Overlaps int

	// number of distinct threads the context was made current on
	Threads int

	// number of hand-offs between distinct threads, in the order the
	// sections ran
	HandOffs int

	// total time taken
	Duration time.Duration
}

func (r Report) String() string {
	return fmt.Sprintf("%d sections over %d threads (%d hand-offs) in %v: %d concurrent, %d overlapping",
		r.Sections, r.Threads, r.HandOffs, r.Duration.Round(time.Millisecond), r.Concurrent, r.Overlaps)
}

// Run starts cfg.Workers goroutines, each of which acquires the guard
// cfg.Iterations times and calls section while holding it. The first error
// returned by section or by guard acquisition ends the worker and is
// returned once all workers have finished.
func Run(ctx *glcontext.Context, cfg Config, section func(worker int) error) (Report, error) {
	var rep Report

	if cfg.Workers <= 0 || cfg.Iterations <= 0 {
		return rep, fmt.Errorf("stress: workers and iterations must be greater than zero")
	}

	var inside atomic.Int32
	var concurrent atomic.Int32

	spans := make([][]Span, cfg.Workers)
	errs := make([]error, cfg.Workers)

	start := time.Now()

	var wg sync.WaitGroup
	for w := range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spans[w] = make([]Span, 0, cfg.Iterations)
			for range cfg.Iterations {
				g, err := ctx.Acquire()
				if err != nil {
					errs[w] = err
					return
				}

				if inside.Add(1) > 1 {
					concurrent.Add(1)
				}
				s := Span{Worker: w, Thread: g.Thread(), Start: time.Now()}
				err = section(w)
				s.End = time.Now()
				inside.Add(-1)

				g.Release()

				spans[w] = append(spans[w], s)
				if err != nil {
					errs[w] = err
					return
				}
			}
		}()
	}
	wg.Wait()

	rep.Duration = time.Since(start)
	rep.Concurrent = int(concurrent.Load())

	var all []Span
	for _, s := range spans {
		all = append(all, s...)
	}
	rep.Sections = len(all)
	rep.Overlaps = Overlaps(all)

	sortSpans(all)
	threads := make(map[glcontext.ThreadID]bool)
	for i, s := range all {
		threads[s.Thread] = true
		if i > 0 && s.Thread != all[i-1].Thread {
			rep.HandOffs++
		}
	}
	rep.Threads = len(threads)

	for _, err := range errs {
		if err != nil {
			return rep, fmt.Errorf("stress: %w", err)
		}
	}

	return rep, nil
}

func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start.Before(spans[j].Start)
	})
}

// Overlaps returns the number of spans that start before the latest end of
// all the spans that started before them. In other words, the number of spans
// that overlap in time with at least one earlier span. The spans are sorted
// in place by start time.
func Overlaps(spans []Span) int {
	sortSpans(spans)

	var n int

	// the latest end time seen so far. a span starting before this overlaps
	// with at least one earlier span
	var end time.Time
	for i, s := range spans {
		if i > 0 && s.Start.Before(end) {
			n++
		}
		if s.End.After(end) {
			end = s.End
		}
	}
	return n
}
