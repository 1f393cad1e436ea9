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

import (
	"fmt"
	"time"

	"github.com/jetsetilly/makecurrent/glcontext"
)

// Triangle is a render client for the headless device. It makes the same
// sequence of calls as the triangle package makes on a real device.
type Triangle struct {
	dev *Device

	// delay initialisation by this amount. the delay happens while the guard
	// is held
	SlowInit time.Duration

	// raise INVALID_ENUM and then INVALID_OPERATION during initialisation
	Provoke bool

	vao     uint32
	vbo     uint32
	program uint32
}

// NewTriangle is the preferred method of initialisation for the Triangle type.
func NewTriangle(dev *Device) *Triangle {
	return &Triangle{dev: dev}
}

// Initialise implements the renderloop.Client interface.
func (tri *Triangle) Initialise() error {
	if tri.SlowInit > 0 {
		time.Sleep(tri.SlowInit)
	}

	tri.vao = tri.dev.GenVertexArray()
	tri.dev.BindVertexArray(tri.vao)
	tri.vbo = tri.dev.GenBuffer()
	tri.program = tri.dev.CreateProgram()

	if tri.vao == 0 || tri.vbo == 0 || tri.program == 0 {
		return fmt.Errorf("triangle: resource creation failed")
	}

	if tri.Provoke {
		tri.dev.Raise(glcontext.InvalidEnumCode)
		tri.dev.Raise(glcontext.InvalidOperationCode)
	}

	return nil
}

// Frame implements the renderloop.Client interface.
func (tri *Triangle) Frame() error {
	tri.dev.Clear()
	tri.dev.UseProgram(tri.program)
	tri.dev.BindVertexArray(tri.vao)
	tri.dev.DrawArrays(3)
	return nil
}

// Teardown implements the renderloop.Client interface.
func (tri *Triangle) Teardown() {
	tri.dev.DeleteVertexArray(tri.vao)
	tri.dev.DeleteBuffer(tri.vbo)
	tri.dev.DeleteProgram(tri.program)
	tri.vao = 0
	tri.vbo = 0
	tri.program = 0
}
