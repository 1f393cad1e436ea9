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

//go:build linux

package assert

import "golang.org/x/sys/unix"

// GetThreadID returns the identifier of the operating system thread the
// calling goroutine is currently running on. The result is only stable if the
// goroutine has been locked to its thread with runtime.LockOSThread()
func GetThreadID() uint64 {
	return uint64(unix.Gettid())
}

// ThreadIDIsNative is true if GetThreadID() returns a real operating system
// thread identifier.
const ThreadIDIsNative = true
