package math

// NewTransform places an object at position with the given Z rotation and
// scale.
func NewTransform(position Vec3, rotation float32, scale Vec3) *Transform {
	t := &Transform{Local: NewMat4Identity()}
	t.SetPositionRotationScale(position, rotation, scale)
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) SetRotation(radians float32) {
	t.Rotation = radians
	t.IsDirty = true
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position Vec3, rotation float32, scale Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns scale, then rotation, then translation. A nil transform
// is the identity.
func (t *Transform) GetLocal() Mat4 {
	if t == nil {
		return NewMat4Identity()
	}
	if t.IsDirty {
		s := NewMat4Scale(t.Scale)
		t.Local = s.Mul(NewMat4EulerZ(t.Rotation)).Mul(NewMat4Translation(t.Position))
		t.IsDirty = false
	}
	return t.Local
}
