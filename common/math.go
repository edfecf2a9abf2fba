package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (OpenGL/WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix using the OpenGL clip-space
// convention (depth in [-1, 1]). Surfaces with a [0, 1] depth range remap z in their
// vertex stage.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	nf := 1.0 / (near - far)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = (far + near) * nf
	out[11] = -1.0
	out[14] = 2 * far * near * nf
	out[15] = 0.0
}

// Translate post-multiplies m by a translation matrix and stores the result in out
// (out = m * T). out and m may alias.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//   - x, y, z: translation components
func Translate(out, m []float32, x, y, z float32) {
	if &out[0] != &m[0] {
		copy(out[:12], m[:12])
	}
	out[12] = m[0]*x + m[4]*y + m[8]*z + m[12]
	out[13] = m[1]*x + m[5]*y + m[9]*z + m[13]
	out[14] = m[2]*x + m[6]*y + m[10]*z + m[14]
	out[15] = m[3]*x + m[7]*y + m[11]*z + m[15]
}

// RotateZ post-multiplies m by a rotation of rad radians about the Z axis (out = m * Rz).
// out and m may alias.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//   - rad: rotation angle in radians
func RotateZ(out, m []float32, rad float32) {
	s, c := math32.Sincos(rad)
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]

	if &out[0] != &m[0] {
		copy(out[8:], m[8:16])
	}
	out[0] = a00*c + a10*s
	out[1] = a01*c + a11*s
	out[2] = a02*c + a12*s
	out[3] = a03*c + a13*s
	out[4] = a10*c - a00*s
	out[5] = a11*c - a01*s
	out[6] = a12*c - a02*s
	out[7] = a13*c - a03*s
}

// RotateY post-multiplies m by a rotation of rad radians about the Y axis (out = m * Ry).
// out and m may alias.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//   - rad: rotation angle in radians
func RotateY(out, m []float32, rad float32) {
	s, c := math32.Sincos(rad)
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]

	if &out[0] != &m[0] {
		copy(out[4:8], m[4:8])
		copy(out[12:16], m[12:16])
	}
	out[0] = a00*c - a20*s
	out[1] = a01*c - a21*s
	out[2] = a02*c - a22*s
	out[3] = a03*c - a23*s
	out[8] = a00*s + a20*c
	out[9] = a01*s + a21*c
	out[10] = a02*s + a22*c
	out[11] = a03*s + a23*c
}

// Transpose4 transposes a 4x4 matrix into out. out and m may alias.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements)
func Transpose4(out, m []float32) {
	var buf [16]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			buf[r*4+c] = m[c*4+r]
		}
	}
	copy(out, buf[:])
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
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

	var buf [16]float32
	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	copy(out, buf[:])
	return true
}

// NormalMatrix computes the inverse-transpose of a model-view matrix, used to transform
// normals correctly under non-uniform scale. The result keeps the 4x4 layout so it can be
// uploaded through the same uniform path as the other matrices.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - modelView: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: false if modelView is singular, in which case out is unchanged
func NormalMatrix(out, modelView []float32) bool {
	var inv [16]float32
	if !Invert4(inv[:], modelView) {
		return false
	}
	Transpose4(out, inv[:])
	return true
}

// Normalize3 returns the unit-length version of (x, y, z). A zero vector is returned unchanged.
func Normalize3(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return x, y, z
	}
	return x / l, y / l, z / l
}

// Cross3 returns the cross product a × b.
func Cross3(ax, ay, az, bx, by, bz float32) (float32, float32, float32) {
	return ay*bz - az*by, az*bx - ax*bz, ax*by - ay*bx
}
