package core

// UserData carries one opaque value between producers and consumers that do
// not share a type: message payloads and the per-frame update state. The
// value is written at most once and read back through UserDataAs.
type UserData struct {
	data any
	set  bool
}

// NewUserData wraps value. A nil value still counts as written.
func NewUserData(value any) *UserData {
	return &UserData{data: value, set: true}
}

// EmptyUserData returns a carrier with nothing in it yet.
func EmptyUserData() *UserData {
	return &UserData{}
}

// IsEmpty reports whether no value was ever written.
func (u *UserData) IsEmpty() bool {
	return u == nil || !u.set
}

// Set writes the value of an empty carrier.
func (u *UserData) Set(value any) error {
	if u.set {
		return ErrUserDataSet
	}
	u.data = value
	u.set = true
	return nil
}

// Value returns the raw value, nil when empty.
func (u *UserData) Value() any {
	if u == nil {
		return nil
	}
	return u.data
}

// UserDataAs downcasts the carried value to T. It fails when the carrier is
// empty or holds a different type. Store a pointer when the value has to be
// mutated in place.
func UserDataAs[T any](u *UserData) (T, bool) {
	var zero T
	if u.IsEmpty() {
		return zero, false
	}
	v, ok := u.data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
