package math

// Mat3 is a column-major 3x3 matrix: m[col][row].
type Mat3 [3][3]float32

func Mat3Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mat3FromColumns builds a matrix from three column vectors.
func Mat3FromColumns(x, y, z Vec3) Mat3 {
	return Mat3{
		{x.X, x.Y, x.Z},
		{y.X, y.Y, y.Z},
		{z.X, z.Y, z.Z},
	}
}

func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i][0], m[i][1], m[i][2]}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}

// MulVecT multiplies by the transpose, i.e. projects v onto each column.
func (m Mat3) MulVecT(v Vec3) Vec3 {
	return Vec3{
		X: m.Col(0).Dot(v),
		Y: m.Col(1).Dot(v),
		Z: m.Col(2).Dot(v),
	}
}

func (m Mat3) Transpose() Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[j][i]
		}
	}
	return result
}

// Abs returns the element-wise absolute value, used to project box extents.
func (m Mat3) Abs() Mat3 {
	var result Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = abs32(m[i][j])
		}
	}
	return result
}
