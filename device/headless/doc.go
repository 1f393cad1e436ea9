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

// Package headless is an emulated graphics device. It keeps the same hidden
// per-thread "current context" state, error queue and resource names as a
// real OpenGL context but draws nothing.
//
// Every operation checks that the context is current on the calling thread.
// An operation made without the context being current is a violation. Real
// drivers would silently misbehave in that situation; the headless device
// counts the violation, logs it, and otherwise ignores the operation.
//
// The device implements glcontext.Device and the Surface interface of the
// renderloop package.
package headless
