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

// Op is an operation recorded in the device trace.
type Op int

// List of valid Op values.
const (
	OpMakeCurrent Op = iota
	OpReleaseCurrent
	OpGetError
	OpGenVertexArray
	OpGenBuffer
	OpCreateProgram
	OpDeleteVertexArray
	OpDeleteBuffer
	OpDeleteProgram
	OpBindVertexArray
	OpUseProgram
	OpClear
	OpDrawArrays
	OpPresent
	OpRaise
)

func (op Op) String() string {
	switch op {
	case OpMakeCurrent:
		return "MakeCurrent"
	case OpReleaseCurrent:
		return "ReleaseCurrent"
	case OpGetError:
		return "GetError"
	case OpGenVertexArray:
		return "GenVertexArray"
	case OpGenBuffer:
		return "GenBuffer"
	case OpCreateProgram:
		return "CreateProgram"
	case OpDeleteVertexArray:
		return "DeleteVertexArray"
	case OpDeleteBuffer:
		return "DeleteBuffer"
	case OpDeleteProgram:
		return "DeleteProgram"
	case OpBindVertexArray:
		return "BindVertexArray"
	case OpUseProgram:
		return "UseProgram"
	case OpClear:
		return "Clear"
	case OpDrawArrays:
		return "DrawArrays"
	case OpPresent:
		return "Present"
	case OpRaise:
		return "Raise"
	}
	return "unknown op"
}

// Event is a single entry in the device trace.
type Event struct {
	Op     Op
	Thread uint64
}
