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

package triangle

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/jetsetilly/makecurrent/test"
)

func TestVertices(t *testing.T) {
	test.ExpectEquality(t, len(Vertices)%vertexComponents, 0)
	test.ExpectEquality(t, len(Vertices)/vertexComponents, 3)

	// every vertex is inside normalised device coordinates
	for _, v := range Vertices {
		test.ExpectEquality(t, v >= -1.0 && v <= 1.0, true)
	}
}

func TestShaderSource(t *testing.T) {
	for _, s := range []string{vertexShader, fragmentShader} {
		test.ExpectEquality(t, strings.HasPrefix(s, "#version 330 core\n"), true)
	}
	test.ExpectEquality(t, strings.Contains(vertexShader, "layout (location = 0) in vec2 aPos"), true)
	test.ExpectEquality(t, strings.Contains(fragmentShader, "uniform vec4 "+colourUniform+";"), true)
	test.ExpectEquality(t, Colour, [4]float32{1.0, 0.5, 0.2, 1.0})
}

func TestTrimInfoLog(t *testing.T) {
	fill := func(msg string) func(*uint8) {
		return func(p *uint8) {
			copy(unsafe.Slice(p, len(msg)), msg)
		}
	}

	msg := "0:3(1): error: syntax error\n"
	test.ExpectEquality(t, trimInfoLog(int32(len(msg)+1), fill(msg)), "0:3(1): error: syntax error")

	// no log at all
	test.ExpectEquality(t, trimInfoLog(0, fill("")), "no information")

	// a log that contains nothing printable
	test.ExpectEquality(t, trimInfoLog(4, fill("\n")), "no information")
}

func TestZeroTeardown(t *testing.T) {
	// a triangle that was never initialised has no names to delete and so
	// makes no GL calls
	tri := NewTriangle(false)
	tri.Teardown()
	test.ExpectEquality(t, tri.vao, uint32(0))
}
