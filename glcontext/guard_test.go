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

package glcontext_test

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/makecurrent/device/headless"
	"github.com/jetsetilly/makecurrent/glcontext"
	"github.com/jetsetilly/makecurrent/logger"
	"github.com/jetsetilly/makecurrent/test"
)

func newContext(t *testing.T) (*glcontext.Context, *headless.Device, *glcontext.TransitionLog, *logger.Logger) {
	t.Helper()
	log := logger.NewLogger(1000)
	dev := headless.NewDevice(t.Name(), log, logger.Allow)
	tl := glcontext.NewTransitionLog(log, logger.Allow)
	ctx := glcontext.NewContext(dev, glcontext.Options{
		Observer:   tl,
		Logger:     log,
		Permission: logger.Allow,
	})
	return ctx, dev, tl, log
}

// expectPanic fails the test if f does not panic with an error that matches want
func expectPanic(t *testing.T, want error, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Errorf("expected panic with %v but got %v", want, r)
		}
	}()
	f()
}

func lastEntry(log *logger.Logger) string {
	var s string
	log.BorrowLog(func(entries []logger.Entry) {
		if len(entries) > 0 {
			s = entries[len(entries)-1].Detail
		}
	})
	return s
}

func TestHandOff(t *testing.T) {
	ctx, dev, tl, log := newContext(t)

	_, ok := tl.Last()
	test.ExpectEquality(t, ok, false)

	// thread A acquires and releases. goroutine A stays locked to its thread
	// until the end of the test so that thread B can not be the same thread.
	// the thread is never unlocked so it is terminated when goroutine A ends
	var threadA glcontext.ThreadID
	doneA := make(chan bool)
	holdA := make(chan bool)
	go func() {
		runtime.LockOSThread()
		g, err := ctx.Acquire()
		if err != nil {
			doneA <- false
			return
		}
		threadA = g.Thread()
		drained := g.Release()
		doneA <- len(drained) == 0
		<-holdA
	}()
	test.DemandEquality(t, <-doneA, true)
	defer close(holdA)

	test.ExpectEquality(t, tl.Activations(), 1)
	test.ExpectEquality(t, tl.Transitions(), 0)
	test.ExpectEquality(t, log.Count("glcontext"), 1)
	test.ExpectEquality(t, log.Count("gl"), 0)
	last, ok := tl.Last()
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, last, threadA)

	// thread B acquires the same context
	err := ctx.Do(func() error {
		return nil
	})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, tl.Activations(), 2)
	test.ExpectEquality(t, tl.Transitions(), 1)
	test.ExpectEquality(t, log.Count("glcontext"), 2)
	test.ExpectEquality(t, strings.HasSuffix(lastEntry(log), fmt.Sprintf("(from %d)", threadA)), true)
	test.ExpectEquality(t, dev.Counters().Violations, 0)
}

func TestRepeatedActivationOnSameThread(t *testing.T) {
	ctx, _, tl, log := newContext(t)

	for range 10 {
		err := ctx.Do(func() error { return nil })
		test.DemandSuccess(t, err)
	}

	// the test goroutine may move between threads in between guards so the
	// number of transitions is not known. what we can say is that each
	// transition is logged exactly once
	test.ExpectEquality(t, tl.Activations(), 10)
	test.ExpectEquality(t, log.Count("glcontext"), tl.Transitions()+1)
}

func TestErrorDrainOrder(t *testing.T) {
	ctx, dev, _, log := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	dev.Raise(glcontext.InvalidEnumCode)
	dev.Raise(glcontext.InvalidOperationCode)
	drained := g.Release()

	test.DemandEquality(t, len(drained), 2)
	test.ExpectEquality(t, drained[0].Kind, glcontext.InvalidEnum)
	test.ExpectEquality(t, drained[1].Kind, glcontext.InvalidOperation)
	test.ExpectEquality(t, dev.Pending(), 0)

	w := &strings.Builder{}
	log.Tail(w, 2)
	test.ExpectEquality(t, w.String(), "gl: section 1, error 1: GL_INVALID_ENUM\ngl: section 1, error 2: GL_INVALID_OPERATION\n")

	st := ctx.Stats()
	test.ExpectEquality(t, st.Probe.Total(), 2)
	test.ExpectEquality(t, st.Probe.Errors[glcontext.InvalidEnum], 1)
	test.ExpectEquality(t, st.Probe.Errors[glcontext.InvalidOperation], 1)

	// errors do not carry over to the next guarded section
	g, err = ctx.Acquire()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(g.Release()), 0)
}

func TestErrorDrainAtLimit(t *testing.T) {
	log := logger.NewLogger(100)
	dev := headless.NewDevice(t.Name(), log, logger.Allow)
	ctx := glcontext.NewContext(dev, glcontext.Options{
		DrainLimit: 2,
		Logger:     log,
	})

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	dev.Raise(glcontext.InvalidEnumCode)
	dev.Raise(glcontext.InvalidValueCode)
	dev.Raise(glcontext.OutOfMemoryCode)
	dev.Raise(glcontext.InvalidOperationCode)
	drained := g.Release()

	// three errors are reported. the fourth stays in the device queue
	test.DemandEquality(t, len(drained), 3)
	test.ExpectEquality(t, drained[2].Kind, glcontext.OutOfMemory)
	test.ExpectEquality(t, dev.Pending(), 1)
	test.ExpectEquality(t, log.Count("gl"), 4)

	// the next section reports the remaining error as its own
	g, err = ctx.Acquire()
	test.DemandSuccess(t, err)
	drained = g.Release()
	test.DemandEquality(t, len(drained), 1)
	test.ExpectEquality(t, drained[0].Kind, glcontext.InvalidOperation)
	test.ExpectEquality(t, lastEntry(log), "section 2, error 1: GL_INVALID_OPERATION")

	st := ctx.Stats().Probe
	test.ExpectEquality(t, st.Total(), 4)
	test.ExpectEquality(t, st.Abandoned, 1)
}

func TestIdenticalErrorsAreNotFolded(t *testing.T) {
	ctx, dev, _, log := newContext(t)

	for range 2 {
		g, err := ctx.Acquire()
		test.DemandSuccess(t, err)
		dev.Raise(glcontext.InvalidEnumCode)
		g.Release()
	}

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	dev.Raise(glcontext.InvalidEnumCode)
	dev.Raise(glcontext.InvalidEnumCode)
	g.Release()

	var reports []string
	log.BorrowLog(func(entries []logger.Entry) {
		for _, e := range entries {
			if e.Tag == "gl" {
				test.ExpectEquality(t, e.Repeated(), 1)
				reports = append(reports, e.Detail)
			}
		}
	})

	test.DemandEquality(t, len(reports), 4)
	test.ExpectEquality(t, reports[0], "section 1, error 1: GL_INVALID_ENUM")
	test.ExpectEquality(t, reports[1], "section 2, error 1: GL_INVALID_ENUM")
	test.ExpectEquality(t, reports[2], "section 3, error 1: GL_INVALID_ENUM")
	test.ExpectEquality(t, reports[3], "section 3, error 2: GL_INVALID_ENUM")
}

func TestErrorDrainCompleteness(t *testing.T) {
	ctx, dev, _, _ := newContext(t)

	codes := []uint32{
		glcontext.InvalidValueCode,
		glcontext.OutOfMemoryCode,
		glcontext.InvalidFramebufferOperationCode,
		glcontext.InvalidEnumCode,
		glcontext.InvalidEnumCode,
		glcontext.InvalidOperationCode,
		0x1234,
	}
	kinds := []glcontext.ErrorKind{
		glcontext.InvalidValue,
		glcontext.OutOfMemory,
		glcontext.InvalidFramebufferOperation,
		glcontext.InvalidEnum,
		glcontext.InvalidEnum,
		glcontext.InvalidOperation,
		glcontext.Unknown,
	}

	var drained []glcontext.DeviceError
	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	for _, c := range codes {
		dev.Raise(c)
	}
	drained = g.Release()

	test.DemandEquality(t, len(drained), len(codes))
	for i := range drained {
		test.ExpectEquality(t, drained[i].Kind, kinds[i], i)
		test.ExpectEquality(t, drained[i].Code, codes[i], i)
	}
	test.ExpectEquality(t, dev.Pending(), 0)
}

func TestUnknownErrorCode(t *testing.T) {
	ctx, dev, _, log := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	dev.Raise(0x0503)
	dev.Raise(glcontext.InvalidValueCode)
	drained := g.Release()

	// the unknown code does not end the drain
	test.DemandEquality(t, len(drained), 2)
	test.ExpectEquality(t, drained[0].Kind, glcontext.Unknown)
	test.ExpectEquality(t, drained[1].Kind, glcontext.InvalidValue)

	w := &strings.Builder{}
	log.Tail(w, 2)
	test.ExpectEquality(t, w.String(), "gl: section 1, error 1: unknown error (0x0503)\ngl: section 1, error 2: GL_INVALID_VALUE\n")
}

func TestDrainLimit(t *testing.T) {
	log := logger.NewLogger(100)
	dev := headless.NewDevice(t.Name(), log, logger.Allow)
	ctx := glcontext.NewContext(dev, glcontext.Options{
		DrainLimit: 5,
		Logger:     log,
	})
	test.ExpectEquality(t, ctx.Probe().Limit(), 5)

	// a device that never stops reporting an error must not prevent the guard
	// from being released
	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	dev.Stick(0x9999)
	drained := g.Release()

	// the error that exceeds the limit is still reported
	test.ExpectEquality(t, len(drained), 6)
	test.ExpectEquality(t, ctx.Stats().Probe.Abandoned, 1)
	test.ExpectEquality(t, lastEntry(log), "section 1: error drain abandoned after 6 errors")
	test.ExpectEquality(t, ctx.Held(), false)

	dev.Stick(glcontext.NoErrorCode)
	g, err = ctx.Acquire()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(g.Release()), 0)
	test.ExpectEquality(t, ctx.Stats().Probe.Abandoned, 1)
}

func TestDefaultDrainLimit(t *testing.T) {
	ctx := glcontext.NewContext(headless.NewDevice(t.Name(), logger.NewLogger(10), nil), glcontext.Options{})
	test.ExpectEquality(t, ctx.Probe().Limit(), glcontext.DefaultDrainLimit)
}

func TestMutualExclusion(t *testing.T) {
	ctx, dev, _, _ := newContext(t)

	const workers = 32
	const iterations = 100

	type span struct {
		start, end time.Time
	}

	var inside atomic.Int32
	var overlaps atomic.Int32
	spans := make([][]span, workers)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				err := ctx.Do(func() error {
					if inside.Add(1) > 1 {
						overlaps.Add(1)
					}
					start := time.Now()
					dev.Clear()
					end := time.Now()
					inside.Add(-1)
					spans[w] = append(spans[w], span{start: start, end: end})
					return nil
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	test.ExpectEquality(t, overlaps.Load(), int32(0))

	var all []span
	for _, s := range spans {
		all = append(all, s...)
	}
	test.DemandEquality(t, len(all), workers*iterations)

	sort.Slice(all, func(i, j int) bool {
		return all[i].start.Before(all[j].start)
	})
	for i := 1; i < len(all); i++ {
		if all[i].start.Before(all[i-1].end) {
			t.Fatalf("critical sections %d and %d overlap", i-1, i)
		}
	}

	c := dev.Counters()
	test.ExpectEquality(t, c.Clears, workers*iterations)
	test.ExpectEquality(t, c.MakeCurrent, workers*iterations)
	test.ExpectEquality(t, c.ReleaseCurrent, workers*iterations)
	test.ExpectEquality(t, c.Violations, 0)

	st := ctx.Stats()
	test.ExpectEquality(t, st.Activations, workers*iterations)
	test.ExpectEquality(t, st.Releases, workers*iterations)
}

func TestActivationPairing(t *testing.T) {
	ctx, dev, _, _ := newContext(t)

	// normal exit
	err := ctx.Do(func() error {
		dev.Clear()
		return nil
	})
	test.ExpectSuccess(t, err)

	// error exit
	bodyErr := errors.New("body error")
	err = ctx.Do(func() error {
		dev.Clear()
		return bodyErr
	})
	test.ExpectEquality(t, errors.Is(err, bodyErr), true)

	// panic exit
	func() {
		defer func() {
			test.ExpectEquality(t, recover(), any("body panic"))
		}()
		_ = ctx.Do(func() error {
			dev.Clear()
			panic("body panic")
		})
	}()

	c := dev.Counters()
	test.ExpectEquality(t, c.MakeCurrent, 3)
	test.ExpectEquality(t, c.ReleaseCurrent, 3)
	test.ExpectEquality(t, c.Clears, 3)
	test.ExpectEquality(t, c.Violations, 0)
	test.ExpectEquality(t, ctx.Held(), false)

	_, current := dev.CurrentOn()
	test.ExpectEquality(t, current, false)

	// the guard is free after the panic
	test.ExpectSuccess(t, ctx.Do(func() error { return nil }))
}

func TestActivationOrderInTrace(t *testing.T) {
	ctx, dev, _, _ := newContext(t)
	dev.EnableTrace(true)

	err := ctx.Do(func() error {
		dev.Clear()
		return nil
	})
	test.DemandSuccess(t, err)

	var ops []string
	for _, e := range dev.Trace() {
		ops = append(ops, e.Op.String())
	}

	// the error queue is drained while the context is still current
	test.ExpectEquality(t, strings.Join(ops, " "), "MakeCurrent Clear GetError ReleaseCurrent")
}

func TestHeld(t *testing.T) {
	ctx, _, _, _ := newContext(t)
	test.ExpectEquality(t, ctx.Held(), false)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ctx.Held(), true)

	// another goroutine does not hold the guard
	other := make(chan bool)
	go func() {
		other <- ctx.Held()
	}()
	test.ExpectEquality(t, <-other, false)

	g.Release()
	test.ExpectEquality(t, ctx.Held(), false)
}

func TestBlockingAcquire(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)

	acquired := make(chan bool)
	go func() {
		g, err := ctx.Acquire()
		if err != nil {
			acquired <- false
			return
		}
		g.Release()
		acquired <- true
	}()

	select {
	case <-acquired:
		t.Fatalf("second guard acquired while first guard is held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	test.ExpectEquality(t, <-acquired, true)
}

func TestRecursiveAcquire(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)

	expectPanic(t, glcontext.ErrRecursiveAcquire, func() {
		_, _ = ctx.Acquire()
	})
	expectPanic(t, glcontext.ErrRecursiveAcquire, func() {
		_ = ctx.Destroy()
	})

	// the first guard is unaffected
	test.ExpectEquality(t, ctx.Held(), true)
	g.Release()
	test.ExpectEquality(t, ctx.Held(), false)
}

func TestDoubleRelease(t *testing.T) {
	ctx, dev, _, _ := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)
	g.Release()

	expectPanic(t, glcontext.ErrDoubleRelease, func() {
		g.Release()
	})

	test.ExpectEquality(t, dev.Counters().ReleaseCurrent, 1)
}

func TestWrongGoroutineRelease(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)

	result := make(chan any)
	go func() {
		defer func() {
			result <- recover()
		}()
		g.Release()
	}()
	r := <-result
	err, ok := r.(error)
	test.DemandEquality(t, ok, true)
	test.ExpectEquality(t, errors.Is(err, glcontext.ErrWrongGoroutine), true)

	// still held by us and can be released normally
	test.ExpectEquality(t, ctx.Held(), true)
	g.Release()
}

func TestDestroy(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	test.ExpectSuccess(t, ctx.Do(func() error { return nil }))
	test.ExpectSuccess(t, ctx.Destroy())

	_, err := ctx.Acquire()
	test.ExpectEquality(t, errors.Is(err, glcontext.ErrDestroyed), true)
	test.ExpectEquality(t, errors.Is(ctx.Destroy(), glcontext.ErrDestroyed), true)
	test.ExpectEquality(t, errors.Is(ctx.Do(func() error { return nil }), glcontext.ErrDestroyed), true)
}

func TestDestroyWaitsForGuard(t *testing.T) {
	ctx, _, _, _ := newContext(t)

	g, err := ctx.Acquire()
	test.DemandSuccess(t, err)

	destroyed := make(chan error)
	go func() {
		destroyed <- ctx.Destroy()
	}()

	select {
	case <-destroyed:
		t.Fatalf("context destroyed while guard is held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()
	test.ExpectSuccess(t, <-destroyed)
}

// failingDevice fails to make the context current when fail is true
type failingDevice struct {
	*headless.Device
	fail bool
}

func (dev *failingDevice) MakeCurrent() error {
	if dev.fail {
		return errors.New("make current failed")
	}
	return dev.Device.MakeCurrent()
}

func TestActivationFailure(t *testing.T) {
	log := logger.NewLogger(100)
	dev := &failingDevice{Device: headless.NewDevice(t.Name(), log, nil), fail: true}
	tl := glcontext.NewTransitionLog(log, nil)
	ctx := glcontext.NewContext(dev, glcontext.Options{Observer: tl, Logger: log})

	g, err := ctx.Acquire()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, g == nil, true)
	test.ExpectEquality(t, ctx.Held(), false)
	test.ExpectEquality(t, tl.Activations(), 0)

	// the lock must have been released by the failed acquisition
	dev.fail = false
	test.ExpectSuccess(t, ctx.Do(func() error { return nil }))
	test.ExpectEquality(t, tl.Activations(), 1)
}
