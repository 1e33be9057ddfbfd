package math

import "math"

// Quaternion is a unit rotation used for camera orientation. Lens rays are
// rotated into world space via RotateVector instead of going through a
// matrix, since nothing else in the renderer needs a 4x4 transform stack.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	c := float32(math.Cos(float64(halfAngle)))

	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuaternionLookAt builds the orientation whose forward axis (-Z) points
// from eye towards target, with the given up hint.
func QuaternionLookAt(eye, target, up Vec3) Quaternion {
	forward := target.Sub(eye).Normalize()
	right := up.Cross(forward).Normalize()
	newUp := forward.Cross(right)

	trace := right.X + newUp.Y + forward.Z

	var q Quaternion
	switch {
	case trace > 0:
		s := float32(0.5 / math.Sqrt(float64(trace+1)))
		q.W = 0.25 / s
		q.X = (newUp.Z - forward.Y) * s
		q.Y = (forward.X - right.Z) * s
		q.Z = (right.Y - newUp.X) * s
	case right.X > newUp.Y && right.X > forward.Z:
		s := 2 * float32(math.Sqrt(float64(1+right.X-newUp.Y-forward.Z)))
		q.W = (newUp.Z - forward.Y) / s
		q.X = 0.25 * s
		q.Y = (newUp.X + right.Y) / s
		q.Z = (forward.X + right.Z) / s
	case newUp.Y > forward.Z:
		s := 2 * float32(math.Sqrt(float64(1+newUp.Y-right.X-forward.Z)))
		q.W = (forward.X - right.Z) / s
		q.X = (newUp.X + right.Y) / s
		q.Y = 0.25 * s
		q.Z = (forward.Y + newUp.Z) / s
	default:
		s := 2 * float32(math.Sqrt(float64(1+forward.Z-right.X-newUp.Y)))
		q.W = (right.Y - newUp.X) / s
		q.X = (forward.X + right.Z) / s
		q.Y = (forward.Y + newUp.Z) / s
		q.Z = 0.25 * s
	}

	// The matrix above maps local +Z onto forward and local +X onto
	// up x forward (the viewer's left); a half turn about local Y first
	// makes local -Z the forward axis and local +X the right axis.
	return q.Mul(Quaternion{X: 0, Y: 1, Z: 0, W: 0}).Normalize()
}

func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Normalize() Quaternion {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length > 0 {
		invLength := 1 / length
		return Quaternion{
			X: q.X * invLength,
			Y: q.Y * invLength,
			Z: q.Z * invLength,
			W: q.W * invLength,
		}
	}
	return q
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// RotateVector rotates v from the quaternion's local frame into the frame
// it was built in (camera-local -> world, for ray directions).
func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}
