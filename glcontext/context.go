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
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/makecurrent/assert"
	"github.com/jetsetilly/makecurrent/logger"
)

// Options for NewContext(). The zero value is usable.
type Options struct {
	// notified of every activation. may be nil
	Observer Observer

	// maximum number of errors drained at release. see Probe
	DrainLimit int

	// log for device error reports and guard diagnostics. nil means the
	// central logger
	Logger *logger.Logger

	// permission used for all log entries made by the context
	Permission logger.Permission
}

// Context is a device context that can be shared between goroutines. All
// device calls must be made while a Guard for the Context is held.
//
// A Context must not be copied after first use.
type Context struct {
	crit sync.Mutex

	dev      Device
	observer Observer
	probe    *Probe
	log      *logger.Logger
	perm     logger.Permission

	// protected by crit
	destroyed bool

	// goroutine ID of the guard holder. zero if the guard is not held. read
	// outside of the critical section to detect recursive acquisition
	owner atomic.Uint64

	activations atomic.Int64
	releases    atomic.Int64
}

// NewContext is the preferred method of initialisation for the Context type.
// The device context should not be current on any thread.
func NewContext(dev Device, opts Options) *Context {
	if opts.Logger == nil {
		opts.Logger = logger.Central()
	}
	return &Context{
		dev:      dev,
		observer: opts.Observer,
		probe:    NewProbe(opts.DrainLimit, opts.Logger, opts.Permission),
		log:      opts.Logger,
		perm:     opts.Permission,
	}
}

func (ctx *Context) String() string {
	return ctx.dev.String()
}

// Device returns the underlying device.
func (ctx *Context) Device() Device {
	return ctx.dev
}

// Probe returns the error probe used when a guard is released.
func (ctx *Context) Probe() *Probe {
	return ctx.probe
}

// Held returns true if the calling goroutine holds the guard.
func (ctx *Context) Held() bool {
	return ctx.owner.Load() == assert.GetGoRoutineID()
}

// Destroy waits for the guard to be free and then destroys the device
// context. The Context cannot be used afterwards.
func (ctx *Context) Destroy() error {
	if ctx.Held() {
		panic(ErrRecursiveAcquire)
	}

	ctx.crit.Lock()
	defer ctx.crit.Unlock()

	if ctx.destroyed {
		return ErrDestroyed
	}
	ctx.destroyed = true

	if err := ctx.dev.Destroy(); err != nil {
		return fmt.Errorf("glcontext: %w", err)
	}
	return nil
}

// Stats is a snapshot of the context's activity.
type Stats struct {
	Activations int
	Releases    int
	Probe       ProbeStats
}

// Stats returns a snapshot of the context's activity.
func (ctx *Context) Stats() Stats {
	return Stats{
		Activations: int(ctx.activations.Load()),
		Releases:    int(ctx.releases.Load()),
		Probe:       ctx.probe.Stats(),
	}
}
