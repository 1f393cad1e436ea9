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

// Package logger is the central logging facility. Entries are tagged with
// the component making the entry (for example "gl" or "sdl") and are folded
// together if they repeat consecutively. The log is bounded so very old
// entries are lost.
//
// Diagnostic output in this project, including the activation transitions and
// the device error reports, flows through this package. Output to the
// terminal only happens with SetEcho() or when the log is written explicitly.
package logger
