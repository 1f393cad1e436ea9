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

// Package renderloop is the control flow around a shared graphics context.
//
// The render client's resources are created on a different goroutine (and
// therefore a different thread) to the one running the render loop. That
// goroutine is waited for before the first frame so initialisation always
// completes before any frame is drawn. Each frame and the final teardown are
// separate guarded sections.
//
// Events and any other work that does not touch the graphics device happen
// outside of the guarded sections.
package renderloop
