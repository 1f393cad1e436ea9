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

// Package sdlgl is a device backed by an SDL2 window and a desktop OpenGL 3.3
// core context. The Surface type satisfies both the glcontext.Device and the
// renderloop.Surface interfaces.
//
// NewSurface() must be called from the main goroutine, which must be locked to
// the main thread. Event handling through Service() must also happen on the
// main thread. MakeCurrent() and ReleaseCurrent() can be called from any
// thread, which is the point of the glcontext package.
package sdlgl
