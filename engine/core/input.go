package core

import "fmt"

// KeyStatus is the state of a key during one frame.
type KeyStatus uint8

const (
	KeyReleased KeyStatus = iota
	KeyPressed
)

func (s KeyStatus) String() string {
	if s == KeyPressed {
		return "pressed"
	}
	return "released"
}

// Key identifies a tracked key by the character it produces.
type Key rune

const (
	KeySpace Key = ' '
	Key0     Key = '0'
	Key1     Key = '1'
	Key2     Key = '2'
	Key3     Key = '3'
	Key4     Key = '4'
	Key5     Key = '5'
	Key6     Key = '6'
	Key7     Key = '7'
	Key8     Key = '8'
	Key9     Key = '9'
	KeyA     Key = 'a'
	KeyB     Key = 'b'
	KeyC     Key = 'c'
	KeyD     Key = 'd'
	KeyE     Key = 'e'
	KeyF     Key = 'f'
	KeyG     Key = 'g'
	KeyH     Key = 'h'
	KeyI     Key = 'i'
	KeyJ     Key = 'j'
	KeyK     Key = 'k'
	KeyL     Key = 'l'
	KeyM     Key = 'm'
	KeyN     Key = 'n'
	KeyO     Key = 'o'
	KeyP     Key = 'p'
	KeyQ     Key = 'q'
	KeyR     Key = 'r'
	KeyS     Key = 's'
	KeyT     Key = 't'
	KeyU     Key = 'u'
	KeyV     Key = 'v'
	KeyW     Key = 'w'
	KeyX     Key = 'x'
	KeyY     Key = 'y'
	KeyZ     Key = 'z'
)

func (k Key) String() string {
	if k == KeySpace {
		return "space"
	}
	return string(rune(k))
}

// ParseKey maps a character to a tracked key. Upper case letters fold to
// their lower case key.
func ParseKey(r rune) (Key, error) {
	if r >= 'A' && r <= 'Z' {
		r = r - 'A' + 'a'
	}
	k := Key(r)
	if !k.Tracked() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, r)
	}
	return k, nil
}

// Tracked reports whether k is one of the keys the engine keeps state for.
func (k Key) Tracked() bool {
	return k == KeySpace || (k >= Key0 && k <= Key9) || (k >= KeyA && k <= KeyZ)
}

type keyState struct {
	current  KeyStatus
	previous KeyStatus
}

// Keys holds the current and previous frame status of every tracked key.
type Keys struct {
	states map[Key]*keyState
}

func NewKeys() *Keys {
	k := &Keys{
		states: make(map[Key]*keyState),
	}
	k.states[KeySpace] = &keyState{}
	for r := Key0; r <= Key9; r++ {
		k.states[r] = &keyState{}
	}
	for r := KeyA; r <= KeyZ; r++ {
		k.states[r] = &keyState{}
	}
	return k
}

// UpdateLastKeyStates copies the current status into the previous slot.
// Must run once at the beginning of each frame, before input is pumped.
func (k *Keys) UpdateLastKeyStates() {
	for _, s := range k.states {
		s.previous = s.current
	}
}

// SetKeyState records the current status of key. Untracked keys are ignored
// and reported as false.
func (k *Keys) SetKeyState(key Key, status KeyStatus) bool {
	s, ok := k.states[key]
	if !ok {
		return false
	}
	s.current = status
	return true
}

// Status returns the current and previous status of key.
func (k *Keys) Status(key Key) (current KeyStatus, previous KeyStatus, ok bool) {
	s, ok := k.states[key]
	if !ok {
		return KeyReleased, KeyReleased, false
	}
	return s.current, s.previous, true
}

func (k *Keys) IsDown(key Key) bool {
	c, _, _ := k.Status(key)
	return c == KeyPressed
}

func (k *Keys) WasDown(key Key) bool {
	_, p, _ := k.Status(key)
	return p == KeyPressed
}

// JustPressed reports a released to pressed transition this frame.
func (k *Keys) JustPressed(key Key) bool {
	c, p, ok := k.Status(key)
	return ok && c == KeyPressed && p == KeyReleased
}

// JustReleased reports a pressed to released transition this frame.
func (k *Keys) JustReleased(key Key) bool {
	c, p, ok := k.Status(key)
	return ok && c == KeyReleased && p == KeyPressed
}

// ReleaseAll marks every key released. Used by platforms that only report
// presses.
func (k *Keys) ReleaseAll() {
	for _, s := range k.states {
		s.current = KeyReleased
	}
}
