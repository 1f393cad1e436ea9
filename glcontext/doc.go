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

// Package glcontext shares a single graphics context between goroutines.
//
// Graphics APIs like OpenGL keep the "current context" as hidden per-thread
// state. Every call targets whichever context is current on the calling
// thread and a context can be current on only one thread at a time. Moving a
// context to another thread without first deactivating it corrupts device
// state on common platforms.
//
// The Context type owns a mutex and the device context together. A goroutine
// that wants to issue graphics calls acquires a Guard; acquisition blocks
// until no other goroutine holds the guard, pins the goroutine to its
// operating system thread and makes the device context current on it.
// Releasing the guard drains the device error queue (see Probe), makes no
// context current, unpins the goroutine and unlocks the mutex:
//
//	g, err := ctx.Acquire()
//	if err != nil {
//		return err
//	}
//	defer g.Release()
//
// Or in the scoped form, which releases the guard on every exit path,
// including a panic in the function:
//
//	err := ctx.Do(func() error {
//		gl.Clear(gl.COLOR_BUFFER_BIT)
//		return nil
//	})
//
// There is no recursive acquisition. A goroutine that already holds the guard
// and tries to acquire it again would deadlock; instead Acquire() panics with
// ErrRecursiveAcquire. Releasing a guard twice, or from a goroutine other than
// the one that acquired it, also panics.
//
// An Observer is notified of each activation. The TransitionLog observer logs
// every change in the thread that the context is made current on.
package glcontext
