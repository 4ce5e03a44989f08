package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector. Colors use it as RGBA in [0, 1].
type Vec4 struct {
	X, Y, Z, W float32
}

// Vec2i is an integer size or grid coordinate.
type Vec2i struct {
	X, Y int32
}

// Mat4 is a 4x4 matrix stored row by row. Vectors are treated as rows, so
// the translation lives in Data[12..14] and matrices compose left to right.
type Mat4 struct {
	Data [16]float32
}

// Transform is the position, rotation and scale of a 2D object. Use the
// setters so the cached local matrix is rebuilt.
type Transform struct {
	Position Vec3
	// Rotation around the Z axis, in radians.
	Rotation float32
	Scale    Vec3
	IsDirty  bool
	Local    Mat4
}
