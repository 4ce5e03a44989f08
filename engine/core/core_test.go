package core

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// --- UserData ---

func TestUserData(t *testing.T) {
	u := EmptyUserData()
	if !u.IsEmpty() {
		t.Fatal("EmptyUserData should be empty")
	}
	if _, ok := UserDataAs[int](u); ok {
		t.Error("UserDataAs on empty carrier should fail")
	}
	if err := u.Set(7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := u.Set(8); !errors.Is(err, ErrUserDataSet) {
		t.Errorf("second Set: err = %v, want ErrUserDataSet", err)
	}
	if v, ok := UserDataAs[int](u); !ok || v != 7 {
		t.Errorf("UserDataAs[int] = %d, %v, want 7, true", v, ok)
	}
	if _, ok := UserDataAs[string](u); ok {
		t.Error("UserDataAs[string] on int should fail")
	}

	var nilData *UserData
	if !nilData.IsEmpty() || nilData.Value() != nil {
		t.Error("nil carrier should behave as empty")
	}
}

// --- Keys ---

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      rune
		want    Key
		wantErr bool
	}{
		{'a', KeyA, false},
		{'W', KeyW, false},
		{'7', Key7, false},
		{' ', KeySpace, false},
		{'!', 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownKey) {
			t.Errorf("ParseKey(%q) err = %v, want ErrUnknownKey", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyTransitions(t *testing.T) {
	k := NewKeys()

	k.UpdateLastKeyStates()
	k.SetKeyState(KeyA, KeyPressed)
	if !k.JustPressed(KeyA) || !k.IsDown(KeyA) || k.WasDown(KeyA) {
		t.Error("frame 1: a should be just pressed")
	}

	k.UpdateLastKeyStates()
	if k.JustPressed(KeyA) || !k.IsDown(KeyA) {
		t.Error("frame 2: a should be held, not just pressed")
	}

	k.UpdateLastKeyStates()
	k.ReleaseAll()
	if !k.JustReleased(KeyA) {
		t.Error("frame 3: a should be just released")
	}

	if k.SetKeyState(Key('!'), KeyPressed) {
		t.Error("untracked key should be ignored")
	}
	if _, _, ok := k.Status(Key('!')); ok {
		t.Error("Status of untracked key should report !ok")
	}
}

// --- EventBus ---

func TestEventBus(t *testing.T) {
	b := NewEventBus()
	var order []string

	_ = b.Register(EVENT_CODE_KEY_PRESSED, "first", func(code SystemEventCode, _ interface{}, ctx EventContext) bool {
		order = append(order, "first:"+ctx.Key.String())
		return false
	})
	_ = b.Register(EVENT_CODE_KEY_PRESSED, "second", func(SystemEventCode, interface{}, EventContext) bool {
		order = append(order, "second")
		return true
	})
	_ = b.Register(EVENT_CODE_KEY_PRESSED, "third", func(SystemEventCode, interface{}, EventContext) bool {
		order = append(order, "third")
		return false
	})

	if err := b.Register(EVENT_CODE_KEY_PRESSED, "first", nil); !errors.Is(err, ErrListenerExists) {
		t.Errorf("duplicate Register: err = %v, want ErrListenerExists", err)
	}

	if !b.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{Key: KeyQ}) {
		t.Error("Fire should report handled")
	}
	if strings.Join(order, ",") != "first:q,second" {
		t.Errorf("order = %v, want [first:q second]", order)
	}

	if err := b.Unregister(EVENT_CODE_KEY_PRESSED, "second"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if err := b.Unregister(EVENT_CODE_KEY_PRESSED, "second"); !errors.Is(err, ErrListenerMissing) {
		t.Errorf("second Unregister: err = %v, want ErrListenerMissing", err)
	}

	order = nil
	if b.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{Key: KeyQ}) {
		t.Error("no remaining listener handles the event")
	}
	if len(order) != 2 {
		t.Errorf("order = %v, want first and third", order)
	}

	b.Shutdown()
	if b.Fire(EVENT_CODE_KEY_PRESSED, nil, EventContext{}) {
		t.Error("Fire after Shutdown should not be handled")
	}
}

// --- Clock / Metrics / Benchmark ---

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	if c.Elapsed() != 0 {
		t.Error("a clock that was never started should not advance")
	}
	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	if c.Elapsed() <= 0 {
		t.Errorf("Elapsed() = %v, want > 0", c.Elapsed())
	}
	c.Stop()
	e := c.Elapsed()
	c.Update()
	if c.Elapsed() != e {
		t.Error("a stopped clock should not advance")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 61; i++ {
		m.Update(1.0 / 60.0)
	}
	fps, frameTime := m.Frame()
	if fps < 59 || fps > 61 {
		t.Errorf("FPS = %v, want ~60", fps)
	}
	if frameTime < 16 || frameTime > 17 {
		t.Errorf("FrameTime = %v ms, want ~16.7", frameTime)
	}
}

func TestBenchmark(t *testing.T) {
	b := NewBenchmark()
	b.Bench("update", func() {})
	b.Bench("draw", func() {})
	b.Bench("draw", func() {})

	results := b.Results()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Name != "draw" || results[0].Samples != 2 {
		t.Errorf("results[0] = %+v, want draw with 2 samples", results[0])
	}
	if results[1].Name != "update" || results[1].Samples != 1 {
		t.Errorf("results[1] = %+v, want update with 1 sample", results[1])
	}
}

// --- Logging ---

func TestLogSetLevel(t *testing.T) {
	var buf bytes.Buffer
	LogSetOutput(&buf)
	defer LogSetOutput(os.Stderr)
	defer func() { _ = LogSetLevel("info") }()

	if err := LogSetLevel("nonsense"); err == nil {
		t.Error("LogSetLevel should reject unknown levels")
	}
	if err := LogSetLevel("warn"); err != nil {
		t.Fatalf("LogSetLevel: %v", err)
	}
	LogInfo("hidden")
	LogWarn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 1") {
		t.Errorf("warn line missing: %q", out)
	}
}
