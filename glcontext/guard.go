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

package glcontext

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/jetsetilly/makecurrent/assert"
)

// Guard is the capability to make device calls. It is returned by
// Context.Acquire() and must be released exactly once, by the same goroutine,
// with Release().
type Guard struct {
	ctx       *Context
	goroutine uint64
	thread    ThreadID
	released  atomic.Bool
}

// Acquire blocks until no other goroutine holds the guard for the context,
// locks the calling goroutine to its operating system thread and makes the
// device context current on that thread.
//
// If the device context cannot be made current the guard is not held when
// Acquire() returns and the error is returned.
//
// It is a programming error to call Acquire() from a goroutine that already
// holds the guard. Acquire() will panic with ErrRecursiveAcquire.
func (ctx *Context) Acquire() (*Guard, error) {
	gid := assert.GetGoRoutineID()
	if ctx.owner.Load() == gid {
		panic(ErrRecursiveAcquire)
	}

	ctx.crit.Lock()

	if ctx.destroyed {
		ctx.crit.Unlock()
		return nil, ErrDestroyed
	}

	// the device API targets the context that is current on the thread so
	// the goroutine must not move to another thread while the guard is held
	runtime.LockOSThread()

	if err := ctx.dev.MakeCurrent(); err != nil {
		runtime.UnlockOSThread()
		ctx.crit.Unlock()
		return nil, fmt.Errorf("glcontext: %w", err)
	}

	ctx.owner.Store(gid)
	ctx.activations.Add(1)

	g := &Guard{
		ctx:       ctx,
		goroutine: gid,
		thread:    ThreadID(assert.GetThreadID()),
	}

	if ctx.observer != nil {
		ctx.observer.Activated(ctx.dev.String(), g.thread)
	}

	return g, nil
}

// Thread returns the thread the context was made current on.
func (g *Guard) Thread() ThreadID {
	return g.thread
}

// Release drains the device error queue, makes no context current on the
// thread, unlocks the goroutine from the thread and releases the guard.
//
// The errors drained, if any, are logged and returned. It is never necessary
// to inspect the returned value.
func (g *Guard) Release() []DeviceError {
	if assert.GetGoRoutineID() != g.goroutine {
		panic(ErrWrongGoroutine)
	}
	if !g.released.CompareAndSwap(false, true) {
		panic(ErrDoubleRelease)
	}

	ctx := g.ctx

	// the error queue belongs to the current context so it must be drained
	// before the context is released from the thread
	drained := ctx.probe.DrainAndReport(ctx.dev)

	if err := ctx.dev.ReleaseCurrent(); err != nil {
		ctx.log.Logf(ctx.perm, "glcontext", "release current: %v", err)
	}

	ctx.owner.Store(0)
	ctx.releases.Add(1)
	runtime.UnlockOSThread()
	ctx.crit.Unlock()

	return drained
}

// Do acquires the guard, calls f and releases the guard. The guard is released
// on every exit path, including a panic in f.
func (ctx *Context) Do(f func() error) error {
	g, err := ctx.Acquire()
	if err != nil {
		return err
	}
	defer g.Release()
	return f()
}
