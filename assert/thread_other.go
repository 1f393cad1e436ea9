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

//go:build !linux

package assert

// GetThreadID returns an identifier for the thread of execution. On this
// platform there is no portable way to ask for the operating system thread so
// the goroutine ID is used instead. A goroutine locked with
// runtime.LockOSThread() is a thread for our purposes so this is good enough
// for diagnostics.
func GetThreadID() uint64 {
	return GetGoRoutineID()
}

// ThreadIDIsNative is true if GetThreadID() returns a real operating system
// thread identifier.
const ThreadIDIsNative = false
