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
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Triangle implements the renderloop.Client interface.
type Triangle struct {
	// raise INVALID_ENUM and then INVALID_OPERATION during initialisation.
	// the errors will be reported when the initialisation guard is released
	Provoke bool

	vao     uint32
	vbo     uint32
	program uint32
}

// NewTriangle is the preferred method of initialisation for the Triangle type.
func NewTriangle(provoke bool) *Triangle {
	return &Triangle{Provoke: provoke}
}

// Initialise implements the renderloop.Client interface.
func (tri *Triangle) Initialise() error {
	gl.GenVertexArrays(1, &tri.vao)
	gl.BindVertexArray(tri.vao)

	gl.GenBuffers(1, &tri.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tri.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(Vertices)*4, gl.Ptr(&Vertices[0]), gl.STATIC_DRAW)

	err := tri.createProgram(vertexShader, fragmentShader)
	if err != nil {
		return err
	}

	// uniform values belong to the program so this only needs doing once
	colour := gl.GetUniformLocation(tri.program, gl.Str(colourUniform+"\x00"))
	if colour < 0 {
		return fmt.Errorf("triangle: no %s uniform in fragment shader", colourUniform)
	}
	gl.UseProgram(tri.program)
	gl.Uniform4fv(colour, 1, &Colour[0])

	gl.VertexAttribPointer(positionAttrib, vertexComponents, gl.FLOAT, false, vertexComponents*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(positionAttrib)

	if tri.Provoke {
		// not a valid capability
		gl.Enable(0xffff)

		// a name that was never returned by GenVertexArrays()
		gl.BindVertexArray(tri.vao + 1000)
		gl.BindVertexArray(tri.vao)
	}

	return nil
}

// Frame implements the renderloop.Client interface.
func (tri *Triangle) Frame() error {
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(tri.program)
	gl.BindVertexArray(tri.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(Vertices)/vertexComponents))

	return nil
}

// Teardown implements the renderloop.Client interface.
func (tri *Triangle) Teardown() {
	if tri.vao != 0 {
		gl.DeleteVertexArrays(1, &tri.vao)
		tri.vao = 0
	}
	if tri.vbo != 0 {
		gl.DeleteBuffers(1, &tri.vbo)
		tri.vbo = 0
	}
	if tri.program != 0 {
		gl.DeleteProgram(tri.program)
		tri.program = 0
	}
}

// compile and link shader program.
func (tri *Triangle) createProgram(vertProgram string, fragProgram string) error {
	vertHandle := gl.CreateShader(gl.VERTEX_SHADER)
	fragHandle := gl.CreateShader(gl.FRAGMENT_SHADER)

	// the individual shaders are not needed once the program has linked (or
	// failed to link)
	defer gl.DeleteShader(vertHandle)
	defer gl.DeleteShader(fragHandle)

	glShaderSource := func(handle uint32, source string) {
		csource, free := gl.Strs(source + "\x00")
		defer free()
		gl.ShaderSource(handle, 1, csource, nil)
	}

	glShaderSource(vertHandle, vertProgram)
	glShaderSource(fragHandle, fragProgram)

	gl.CompileShader(vertHandle)
	if log := shaderCompileError(vertHandle); log != "" {
		return fmt.Errorf("triangle: vertex shader: %s", log)
	}

	gl.CompileShader(fragHandle)
	if log := shaderCompileError(fragHandle); log != "" {
		return fmt.Errorf("triangle: fragment shader: %s", log)
	}

	tri.program = gl.CreateProgram()
	gl.AttachShader(tri.program, vertHandle)
	gl.AttachShader(tri.program, fragHandle)
	gl.LinkProgram(tri.program)

	if log := programLinkError(tri.program); log != "" {
		gl.DeleteProgram(tri.program)
		tri.program = 0
		return fmt.Errorf("triangle: link: %s", log)
	}

	return nil
}

// shaderCompileError returns the most recent error generated by the shader
// compiler. empty string if there was no error.
func shaderCompileError(shader uint32) string {
	var isCompiled int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &isCompiled)
	if isCompiled != gl.FALSE {
		return ""
	}

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	return trimInfoLog(logLength, func(log *uint8) {
		gl.GetShaderInfoLog(shader, logLength, nil, log)
	})
}

func programLinkError(program uint32) string {
	var isLinked int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &isLinked)
	if isLinked != gl.FALSE {
		return ""
	}

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	return trimInfoLog(logLength, func(log *uint8) {
		gl.GetProgramInfoLog(program, logLength, nil, log)
	})
}

// trimInfoLog allocates a buffer of logLength bytes, fills it with get() and
// returns the result without the terminating NULL. a failure with no log
// still returns a non-empty string.
func trimInfoLog(logLength int32, get func(*uint8)) string {
	if logLength <= 0 {
		return "no information"
	}

	// logLength includes the NULL character
	log := make([]uint8, logLength+1)
	get(&log[0])

	s := strings.TrimRight(string(log), "\x00")
	s = strings.TrimSpace(s)
	if s == "" {
		return "no information"
	}
	return s
}
