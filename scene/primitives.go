package scene

import (
	stdmath "math"

	"sgengine/core"
	"sgengine/math"
)

// CreateSphere generates a UV sphere centered on the origin. Triangles wind
// counter-clockwise seen from outside.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertices := make([]core.Vertex, 0, (rings+1)*(segments+1))
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			cos, sin := ringPoint(seg, segments)
			normal := math.Vec3{X: sinPhi * cos, Y: cosPhi, Z: sinPhi * sin}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateCylinder generates a capped cylinder along Y, centered on the origin.
func CreateCylinder(radius, height float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	var vertices []core.Vertex
	var indices []uint32
	half := height / 2

	// Side: a bottom/top vertex pair per segment edge
	for i := 0; i <= segments; i++ {
		cos, sin := ringPoint(i, segments)
		normal := math.Vec3{X: cos, Z: sin}
		vertices = append(vertices,
			core.Vertex{Position: math.Vec3{X: cos * radius, Y: -half, Z: sin * radius}, Normal: normal, Color: core.ColorWhite},
			core.Vertex{Position: math.Vec3{X: cos * radius, Y: half, Z: sin * radius}, Normal: normal, Color: core.ColorWhite},
		)
	}
	for i := 0; i < segments; i++ {
		base := uint32(i * 2)
		indices = append(indices, base, base+1, base+2)
		indices = append(indices, base+2, base+1, base+3)
	}

	vertices, indices = appendCap(vertices, indices, radius, half, segments, math.Vec3Up)
	vertices, indices = appendCap(vertices, indices, radius, -half, segments, math.Vec3Down)

	return CreateMeshFromData("Cylinder", vertices, indices)
}

// appendCap adds a disc at height y facing normal (up or down).
func appendCap(vertices []core.Vertex, indices []uint32, radius, y float32, segments int, normal math.Vec3) ([]core.Vertex, []uint32) {
	center := uint32(len(vertices))
	vertices = append(vertices, core.Vertex{Position: math.Vec3{Y: y}, Normal: normal, Color: core.ColorWhite})

	for i := 0; i <= segments; i++ {
		cos, sin := ringPoint(i, segments)
		vertices = append(vertices, core.Vertex{
			Position: math.Vec3{X: cos * radius, Y: y, Z: sin * radius},
			Normal:   normal,
			Color:    core.ColorWhite,
		})
	}
	for i := uint32(0); i < uint32(segments); i++ {
		a, b := center+1+i, center+2+i
		if normal.Y > 0 {
			indices = append(indices, center, b, a)
		} else {
			indices = append(indices, center, a, b)
		}
	}
	return vertices, indices
}

// ringPoint returns the unit circle point i of n in the XZ plane.
func ringPoint(i, n int) (cos, sin float32) {
	theta := float64(i) * 2 * stdmath.Pi / float64(n)
	return float32(stdmath.Cos(theta)), float32(stdmath.Sin(theta))
}
