package common

import "math"

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in row-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in row-major order. Result: out = a * b.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // row of A
		for j := 0; j < 4; j++ { // column of B
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[i*4+k] * b[k*4+j]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix with clip-space
// depth in [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = (near * far) / (near - far)
	out[14] = -1.0
	out[15] = 0.0
}

// Orthographic creates an orthographic projection matrix with clip-space
// depth in [0, 1]. Used by the viewport's axis-aligned editor views.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extents of the view volume
//   - bottom, top: vertical extents of the view volume
//   - near, far: depth extents of the view volume
func Orthographic(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)

	out[0] = 2.0 / (right - left)
	out[3] = -(right + left) / (right - left)
	out[5] = 2.0 / (top - bottom)
	out[7] = -(top + bottom) / (top - bottom)
	out[10] = 1.0 / (near - far)
	out[11] = near / (near - far)
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z0 := eyeX - centerX
	z1 := eyeY - centerY
	z2 := eyeZ - centerZ
	val := float64(z0*z0 + z1*z1 + z2*z2)
	if val == 0 {
		val = 1
	}
	invLen := 1.0 / float32(math.Sqrt(val))
	z0 *= invLen
	z1 *= invLen
	z2 *= invLen

	x0 := upY*z2 - upZ*z1
	x1 := upZ*z0 - upX*z2
	x2 := upX*z1 - upY*z0
	val = float64(x0*x0 + x1*x1 + x2*x2)
	if val == 0 {
		val = 1
	}
	invLen = 1.0 / float32(math.Sqrt(val))
	x0 *= invLen
	x1 *= invLen
	x2 *= invLen

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[1], out[2], out[3] = x0, x1, x2, -(x0*eyeX + x1*eyeY + x2*eyeZ)
	out[4], out[5], out[6], out[7] = y0, y1, y2, -(y0*eyeX + y1*eyeY + y2*eyeZ)
	out[8], out[9], out[10], out[11] = z0, z1, z2, -(z0*eyeX + z1*eyeY + z2*eyeZ)
	out[12], out[13], out[14], out[15] = 0, 0, 0, 1
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll). All matrices are row-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - posX, posY, posZ: translation in world space
//   - rotX, rotY, rotZ: rotation angles in radians around each axis
//   - scaleX, scaleY, scaleZ: scale factors along each axis
func BuildModelMatrix(out []float32, posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ float32) {
	cx := float32(math.Cos(float64(rotX)))
	sx := float32(math.Sin(float64(rotX)))
	cy := float32(math.Cos(float64(rotY)))
	sy := float32(math.Sin(float64(rotY)))
	cz := float32(math.Cos(float64(rotZ)))
	sz := float32(math.Sin(float64(rotZ)))

	// R = Ry * Rx * Rz, row-major
	out[0] = (cy*cz + sy*sx*sz) * scaleX
	out[1] = (cy*-sz + sy*sx*cz) * scaleY
	out[2] = (sy * cx) * scaleZ
	out[3] = posX

	out[4] = (cx * sz) * scaleX
	out[5] = (cx * cz) * scaleY
	out[6] = (-sx) * scaleZ
	out[7] = posY

	out[8] = (-sy*cz + cy*sx*sz) * scaleX
	out[9] = (sy*sz + cy*sx*cz) * scaleY
	out[10] = (cy * cx) * scaleZ
	out[11] = posZ

	out[12] = 0
	out[13] = 0
	out[14] = 0
	out[15] = 1
}

// TransformVec4 multiplies a row-major 4x4 matrix by a 4-component vector.
//
// Parameters:
//   - m: the matrix (16 elements, row-major)
//   - x, y, z, w: the vector components
//
// Returns:
//   - ox, oy, oz, ow: the transformed vector components
func TransformVec4(m []float32, x, y, z, w float32) (ox, oy, oz, ow float32) {
	ox = m[0]*x + m[1]*y + m[2]*z + m[3]*w
	oy = m[4]*x + m[5]*y + m[6]*z + m[7]*w
	oz = m[8]*x + m[9]*y + m[10]*z + m[11]*w
	ow = m[12]*x + m[13]*y + m[14]*z + m[15]*w
	return
}

// TransformDir multiplies the upper-left 3x3 of a row-major matrix by a
// direction vector, ignoring translation. Used for normals under
// rotation+uniform-scale model matrices.
//
// Parameters:
//   - m: the matrix (16 elements, row-major)
//   - x, y, z: the direction components
//
// Returns:
//   - ox, oy, oz: the transformed direction components
func TransformDir(m []float32, x, y, z float32) (ox, oy, oz float32) {
	ox = m[0]*x + m[1]*y + m[2]*z
	oy = m[4]*x + m[5]*y + m[6]*z
	oz = m[8]*x + m[9]*y + m[10]*z
	return
}

// Normalize3 normalizes a 3-component vector, returning the zero vector
// unchanged.
//
// Parameters:
//   - x, y, z: the vector components
//
// Returns:
//   - ox, oy, oz: the normalized components
func Normalize3(x, y, z float32) (ox, oy, oz float32) {
	l := float64(x*x + y*y + z*z)
	if l == 0 {
		return 0, 0, 0
	}
	inv := 1.0 / float32(math.Sqrt(l))
	return x * inv, y * inv, z * inv
}

// Dot3 computes the dot product of two 3-component vectors.
func Dot3(ax, ay, az, bx, by, bz float32) float32 {
	return ax*bx + ay*by + az*bz
}

// Cross3 computes the cross product of two 3-component vectors.
func Cross3(ax, ay, az, bx, by, bz float32) (ox, oy, oz float32) {
	ox = ay*bz - az*by
	oy = az*bx - ax*bz
	oz = ax*by - ay*bx
	return
}

// Invert4 computes the inverse of a 4x4 row-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, row-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det

	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return true
}
