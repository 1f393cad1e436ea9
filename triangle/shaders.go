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

// Vertices of the triangle in normalised device coordinates. Two floats per
// vertex.
var Vertices = [...]float32{
	-0.5, -0.5,
	0.5, -0.5,
	0.0, 0.5,
}

// Colour of the triangle as RGBA. Set as the colour uniform of the fragment
// shader during initialisation.
var Colour = [4]float32{1.0, 0.5, 0.2, 1.0}

const vertexShader = `#version 330 core
layout (location = 0) in vec2 aPos;
void main() {
	gl_Position = vec4(aPos.x, aPos.y, 0.0, 1.0);
}
`

const fragmentShader = `#version 330 core
uniform vec4 colour;
out vec4 FragColor;
void main() {
	FragColor = colour;
}
`

// name of the colour uniform in the fragment shader
const colourUniform = "colour"

// the location of the aPos attribute in the vertex shader
const positionAttrib = 0

// number of components per vertex
const vertexComponents = 2
