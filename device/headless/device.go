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

package headless

import (
	"fmt"
	"sync"

	"github.com/jetsetilly/makecurrent/assert"
	"github.com/jetsetilly/makecurrent/glcontext"
	"github.com/jetsetilly/makecurrent/logger"
)

// Counters is a snapshot of the number of operations performed on the device.
type Counters struct {
	MakeCurrent    int
	ReleaseCurrent int
	Clears         int
	Draws          int
	Presents       int
	Violations     int
}

// Live is the number of resources that have been created but not destroyed.
type Live struct {
	VertexArrays int
	Buffers      int
	Programs     int
}

// Device is an emulated graphics context. It is safe to call from any
// goroutine but, like a real context, it will only work when it is current
// on the calling thread.
type Device struct {
	name string
	log  *logger.Logger
	perm logger.Permission

	crit sync.Mutex

	// thread the context is current on. zero if it is not current anywhere
	current uint64

	destroyed bool
	quit      bool

	// pending error codes, oldest first
	queue []uint32

	// if stuck is not zero then GetError() always returns it
	stuck uint32

	nextName     uint32
	vertexArrays map[uint32]bool
	buffers      map[uint32]bool
	programs     map[uint32]bool

	boundVertexArray uint32
	boundProgram     uint32

	counters Counters

	traceEnabled bool
	trace        []Event
}

// NewDevice is the preferred method of initialisation for the Device type. A
// nil log means the central logger.
func NewDevice(name string, log *logger.Logger, perm logger.Permission) *Device {
	if log == nil {
		log = logger.Central()
	}
	return &Device{
		name:         name,
		log:          log,
		perm:         perm,
		vertexArrays: make(map[uint32]bool),
		buffers:      make(map[uint32]bool),
		programs:     make(map[uint32]bool),
	}
}

func (dev *Device) String() string {
	return fmt.Sprintf("headless:%s", dev.name)
}

// EnableTrace turns the recording of operations on or off. The existing trace
// is cleared in either case.
func (dev *Device) EnableTrace(enable bool) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.traceEnabled = enable
	dev.trace = dev.trace[:0]
}

// Trace returns a copy of the recorded operations.
func (dev *Device) Trace() []Event {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	t := make([]Event, len(dev.trace))
	copy(t, dev.trace)
	return t
}

// Counters returns a snapshot of the operation counters.
func (dev *Device) Counters() Counters {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.counters
}

// Live returns the number of resources that currently exist.
func (dev *Device) Live() Live {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return Live{
		VertexArrays: len(dev.vertexArrays),
		Buffers:      len(dev.buffers),
		Programs:     len(dev.programs),
	}
}

// Pending returns the number of errors waiting in the error queue.
func (dev *Device) Pending() int {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return len(dev.queue)
}

// Stick causes GetError() to return the code forever. This emulates a
// misbehaving device. A code of zero restores normal behaviour.
func (dev *Device) Stick(code uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.stuck = code
}

// CurrentOn returns the thread the context is current on. The boolean is
// false if the context is not current on any thread.
func (dev *Device) CurrentOn() (uint64, bool) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.current, dev.current != 0
}

// record must be called with the critical section held
func (dev *Device) record(op Op, thread uint64) {
	if dev.traceEnabled {
		dev.trace = append(dev.trace, Event{Op: op, Thread: thread})
	}
}

// enter begins an operation. It returns false if the context is not current
// on the calling thread, in which case the operation must do nothing. must be
// called with the critical section held
func (dev *Device) enter(op Op) bool {
	thread := assert.GetThreadID()
	dev.record(op, thread)
	if dev.current != thread {
		dev.counters.Violations++
		if dev.current == 0 {
			dev.log.Logf(dev.perm, "headless", "%s on thread %d with no current context", op, thread)
		} else {
			dev.log.Logf(dev.perm, "headless", "%s on thread %d but context is current on thread %d", op, thread, dev.current)
		}
		return false
	}
	return true
}

// flag must be called with the critical section held
func (dev *Device) flag(code uint32) {
	dev.queue = append(dev.queue, code)
}

// MakeCurrent implements the glcontext.Device interface.
func (dev *Device) MakeCurrent() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	thread := assert.GetThreadID()
	dev.record(OpMakeCurrent, thread)

	if dev.destroyed {
		return fmt.Errorf("headless: context has been destroyed")
	}
	if dev.current != 0 && dev.current != thread {
		dev.counters.Violations++
		return fmt.Errorf("headless: context is already current on thread %d", dev.current)
	}

	dev.current = thread
	dev.counters.MakeCurrent++
	return nil
}

// ReleaseCurrent implements the glcontext.Device interface.
func (dev *Device) ReleaseCurrent() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	thread := assert.GetThreadID()
	dev.record(OpReleaseCurrent, thread)

	// making no context current on a thread where our context is not current
	// does not affect our context
	if dev.current == thread {
		dev.current = 0
	}
	dev.counters.ReleaseCurrent++
	return nil
}

// GetError implements the glcontext.ErrorSource interface.
func (dev *Device) GetError() uint32 {
	dev.crit.Lock()
	defer dev.crit.Unlock()

	if !dev.enter(OpGetError) {
		return glcontext.NoErrorCode
	}
	if dev.stuck != glcontext.NoErrorCode {
		return dev.stuck
	}
	if len(dev.queue) == 0 {
		return glcontext.NoErrorCode
	}
	code := dev.queue[0]
	dev.queue = dev.queue[1:]
	return code
}

// Destroy implements the glcontext.Device interface.
func (dev *Device) Destroy() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if dev.destroyed {
		return fmt.Errorf("headless: context has already been destroyed")
	}
	if dev.current != 0 {
		return fmt.Errorf("headless: context is current on thread %d", dev.current)
	}
	dev.destroyed = true
	return nil
}

// Raise adds an error code to the error queue. Equivalent to making a call
// that the device rejects.
func (dev *Device) Raise(code uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpRaise) {
		return
	}
	dev.flag(code)
}

func (dev *Device) gen(op Op, table map[uint32]bool) uint32 {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(op) {
		return 0
	}
	dev.nextName++
	table[dev.nextName] = true
	return dev.nextName
}

// GenVertexArray creates a new vertex array and returns its name.
func (dev *Device) GenVertexArray() uint32 {
	return dev.gen(OpGenVertexArray, dev.vertexArrays)
}

// GenBuffer creates a new buffer and returns its name.
func (dev *Device) GenBuffer() uint32 {
	return dev.gen(OpGenBuffer, dev.buffers)
}

// CreateProgram creates a new (linked) shader program and returns its name.
func (dev *Device) CreateProgram() uint32 {
	return dev.gen(OpCreateProgram, dev.programs)
}

// DeleteVertexArray deletes the named vertex array. Unknown names are ignored.
func (dev *Device) DeleteVertexArray(name uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpDeleteVertexArray) {
		return
	}
	delete(dev.vertexArrays, name)
	if dev.boundVertexArray == name {
		dev.boundVertexArray = 0
	}
}

// DeleteBuffer deletes the named buffer. Unknown names are ignored.
func (dev *Device) DeleteBuffer(name uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpDeleteBuffer) {
		return
	}
	delete(dev.buffers, name)
}

// DeleteProgram deletes the named program. An unknown name flags
// INVALID_VALUE.
func (dev *Device) DeleteProgram(name uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpDeleteProgram) {
		return
	}
	if name == 0 {
		return
	}
	if !dev.programs[name] {
		dev.flag(glcontext.InvalidValueCode)
		return
	}
	delete(dev.programs, name)
	if dev.boundProgram == name {
		dev.boundProgram = 0
	}
}

// BindVertexArray binds the named vertex array. An unknown name flags
// INVALID_OPERATION.
func (dev *Device) BindVertexArray(name uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpBindVertexArray) {
		return
	}
	if name != 0 && !dev.vertexArrays[name] {
		dev.flag(glcontext.InvalidOperationCode)
		return
	}
	dev.boundVertexArray = name
}

// UseProgram installs the named program. An unknown name flags
// INVALID_VALUE.
func (dev *Device) UseProgram(name uint32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpUseProgram) {
		return
	}
	if name != 0 && !dev.programs[name] {
		dev.flag(glcontext.InvalidValueCode)
		return
	}
	dev.boundProgram = name
}

// Clear the framebuffer.
func (dev *Device) Clear() {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpClear) {
		return
	}
	dev.counters.Clears++
}

// DrawArrays draws with the bound program and vertex array. Drawing with
// nothing bound flags INVALID_OPERATION, as it does in a core profile.
func (dev *Device) DrawArrays(count int) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpDrawArrays) {
		return
	}
	if dev.boundVertexArray == 0 || dev.boundProgram == 0 {
		dev.flag(glcontext.InvalidOperationCode)
		return
	}
	if count < 0 {
		dev.flag(glcontext.InvalidValueCode)
		return
	}
	dev.counters.Draws++
}

// Present implements the renderloop.Surface interface. It must be called
// while the context is current.
func (dev *Device) Present() error {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	if !dev.enter(OpPresent) {
		return fmt.Errorf("headless: present without a current context")
	}
	dev.counters.Presents++
	return nil
}

// Service implements the renderloop.Surface interface. It returns false once
// RequestQuit() has been called.
func (dev *Device) Service() bool {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return !dev.quit
}

// RequestQuit causes Service() to return false. The equivalent of closing a
// window.
func (dev *Device) RequestQuit() {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.quit = true
}
