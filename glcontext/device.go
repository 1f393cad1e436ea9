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

// ErrorSource is implemented by devices that keep a queue of error codes. Each
// call to GetError() removes and returns the oldest error in the queue or
// NoErrorCode if the queue is empty.
type ErrorSource interface {
	GetError() uint32
}

// Device is a graphics context created against a drawable surface.
//
// MakeCurrent() and ReleaseCurrent() act on the calling thread only. The guard
// takes care of calling them from a goroutine locked to its thread.
type Device interface {
	ErrorSource

	// make the context current on the calling thread
	MakeCurrent() error

	// make no context current on the calling thread
	ReleaseCurrent() error

	// destroy the device context. called exactly once by Context.Destroy()
	Destroy() error

	// a short description of the context handle for the purposes of logging
	String() string
}
