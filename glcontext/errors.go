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

import "errors"

// Sentinel errors. The last three are programming errors and are raised with
// panic() rather than returned.
var (
	// Acquire() or Destroy() has been called on a context that has already been
	// destroyed
	ErrDestroyed = errors.New("glcontext: context has been destroyed")

	// the calling goroutine already holds the guard
	ErrRecursiveAcquire = errors.New("glcontext: recursive acquisition of guard")

	// Release() has been called more than once for the same guard
	ErrDoubleRelease = errors.New("glcontext: guard released more than once")

	// Release() has been called from a goroutine that did not acquire the guard
	ErrWrongGoroutine = errors.New("glcontext: guard released by a goroutine that does not own it")
)
