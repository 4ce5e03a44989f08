package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/resources"
)

type dot struct {
	position math.Vec3
	scale    math.Vec3
	color    math.Vec4
	visible  bool
	fail     bool
	panics   bool
}

func (d *dot) Draw(r *Renderer) error {
	if d.panics {
		panic("dot exploded")
	}
	if d.fail {
		return errors.New("boom")
	}
	p := r.ToNDC(d.position)
	return r.Backend().DrawQuad(Quad{Min: p, Max: p, Color: d.color})
}

func (d *dot) Color() math.Vec4        { return d.color }
func (d *dot) SetColor(c math.Vec4)    { d.color = c }
func (d *dot) Position() math.Vec3     { return d.position }
func (d *dot) SetPosition(p math.Vec3) { d.position = p }
func (d *dot) Scale() math.Vec3        { return d.scale }
func (d *dot) SetScale(s math.Vec3)    { d.scale = s }
func (d *dot) IsVisible() bool         { return d.visible }
func (d *dot) SetVisible(v bool)       { d.visible = v }

func newGrid(t *testing.T, w, h int) (*Renderer, *resources.Store, *RecordingBackend) {
	t.Helper()
	backend := NewRecordingBackend(int32(w), int32(h))
	r := New(math.Vec2i{X: int32(w), Y: int32(h)}, backend)
	store := resources.NewStore()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			resources.Add[Drawable](store, PixelKey(x, y), &dot{position: math.NewVec3(float32(x), float32(y), 0)})
		}
	}
	return r, store, backend
}

func visible(t *testing.T, r *Renderer, store *resources.Store, x, y int) bool {
	t.Helper()
	ref, err := r.GetPixel(store, x, y)
	if err != nil {
		t.Fatalf("GetPixel(%d, %d): %v", x, y, err)
	}
	defer ref.Release()
	return ref.Get().IsVisible()
}

// --- Grid pixels ---

func TestSetAndToggleGridPixel(t *testing.T) {
	r, store, _ := newGrid(t, 4, 3)

	if err := r.SetGridPixel(store, 1, 2, true); err != nil {
		t.Fatalf("SetGridPixel: %v", err)
	}
	if !visible(t, r, store, 1, 2) {
		t.Error("(1, 2) should be visible")
	}
	if err := r.ToggleGridPixel(store, 1, 2); err != nil {
		t.Fatalf("ToggleGridPixel: %v", err)
	}
	if visible(t, r, store, 1, 2) {
		t.Error("(1, 2) should be hidden after toggle")
	}
}

func TestGridPixelOutOfBounds(t *testing.T) {
	r, store, _ := newGrid(t, 4, 3)

	tests := []struct{ x, y int }{
		{4, 0}, {0, 3}, {-1, 0}, {0, -1},
	}
	for _, tt := range tests {
		if err := r.SetGridPixel(store, tt.x, tt.y, true); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetGridPixel(%d, %d): err = %v, want ErrOutOfBounds", tt.x, tt.y, err)
		}
		if _, err := r.GetPixel(store, tt.x, tt.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetPixel(%d, %d): err = %v, want ErrOutOfBounds", tt.x, tt.y, err)
		}
	}
}

func TestClearGridPixel(t *testing.T) {
	r, store, _ := newGrid(t, 4, 3)
	_ = r.SetGridPixel(store, 0, 0, true)
	_ = r.SetGridPixel(store, 3, 2, true)

	if err := r.ClearGridPixel(store); err != nil {
		t.Fatalf("ClearGridPixel: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if visible(t, r, store, x, y) {
				t.Errorf("(%d, %d) still visible", x, y)
			}
		}
	}
}

func TestSetGridPixelWhileBorrowed(t *testing.T) {
	r, store, _ := newGrid(t, 2, 2)
	ref, err := r.GetPixel(store, 0, 0)
	if err != nil {
		t.Fatalf("GetPixel: %v", err)
	}
	defer ref.Release()

	if err := r.SetGridPixel(store, 0, 0, true); !errors.Is(err, resources.ErrBorrowed) {
		t.Errorf("err = %v, want ErrBorrowed", err)
	}
}

// --- DrawAll ---

func TestDrawAllVisibleOnlyInOrder(t *testing.T) {
	r, store, backend := newGrid(t, 3, 1)
	_ = r.SetGridPixel(store, 0, 0, true)
	_ = r.SetGridPixel(store, 2, 0, true)

	if err := r.DrawAll(store); err != nil {
		t.Fatalf("DrawAll: %v", err)
	}
	frame, ok := backend.LastFrame()
	if !ok {
		t.Fatal("no frame recorded")
	}
	if len(frame.Quads) != 2 {
		t.Fatalf("quads = %d, want 2", len(frame.Quads))
	}
	if frame.Quads[0].Min.X >= frame.Quads[1].Min.X {
		t.Errorf("quads out of insertion order: %v then %v", frame.Quads[0].Min, frame.Quads[1].Min)
	}
}

func TestDrawAllSkipsFailures(t *testing.T) {
	backend := NewRecordingBackend(8, 8)
	r := New(math.Vec2i{X: 8, Y: 8}, backend)
	store := resources.NewStore()
	resources.Add[Drawable](store, "bad", &dot{visible: true, fail: true})
	resources.Add[Drawable](store, "good", &dot{visible: true})

	if err := r.DrawAll(store); err != nil {
		t.Fatalf("DrawAll: %v", err)
	}
	frame, _ := backend.LastFrame()
	if len(frame.Quads) != 1 {
		t.Errorf("quads = %d, want 1", len(frame.Quads))
	}
}

func TestDrawAllReleasesOnPanic(t *testing.T) {
	backend := NewRecordingBackend(8, 8)
	r := New(math.Vec2i{X: 8, Y: 8}, backend)
	store := resources.NewStore()
	resources.Add[Drawable](store, "bomb", &dot{visible: true, panics: true})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("DrawAll should let the panic through")
			}
		}()
		_ = r.DrawAll(store)
	}()

	held, err := resources.QueryMut[Drawable](store)
	if err != nil {
		t.Fatalf("QueryMut after panic: %v", err)
	}
	resources.ReleaseAllMut(held)
}

func TestDrawAllEmptyStore(t *testing.T) {
	backend := NewRecordingBackend(8, 8)
	r := New(math.Vec2i{X: 8, Y: 8}, backend)
	r.SetBackground(math.NewVec4(0.1, 0.2, 0.3, 1))

	if err := r.DrawAll(resources.NewStore()); err != nil {
		t.Fatalf("DrawAll: %v", err)
	}
	frame, ok := backend.LastFrame()
	if !ok || frame.Clear != r.Background() {
		t.Errorf("frame = %+v, want cleared with background", frame)
	}
}

func TestDrawAllWhileBucketBusy(t *testing.T) {
	r, store, backend := newGrid(t, 2, 1)
	_ = r.SetGridPixel(store, 0, 0, true)

	held, err := resources.QueryMut[Drawable](store)
	if err != nil {
		t.Fatalf("QueryMut: %v", err)
	}
	if err := r.DrawAll(store); err != nil {
		t.Fatalf("DrawAll: %v", err)
	}
	resources.ReleaseAllMut(held)

	frame, _ := backend.LastFrame()
	if len(frame.Quads) != 0 {
		t.Errorf("quads = %d, want 0 while bucket is busy", len(frame.Quads))
	}
}

// --- Renderer state ---

func TestProjectionMapsDisplayCorners(t *testing.T) {
	r := New(math.Vec2i{X: 64, Y: 32}, NewRecordingBackend(640, 320))

	if got := r.ToNDC(math.NewVec3(0, 0, 0)); !got.Compare(math.NewVec2(-1, 1), 1e-5) {
		t.Errorf("top left = %v, want (-1, 1)", got)
	}
	if got := r.ToNDC(math.NewVec3(64, 32, 0)); !got.Compare(math.NewVec2(1, -1), 1e-5) {
		t.Errorf("bottom right = %v, want (1, -1)", got)
	}
	if r.AspectRatio() != 2 {
		t.Errorf("AspectRatio() = %v, want 2", r.AspectRatio())
	}
}

func TestSizeValidation(t *testing.T) {
	r := New(math.Vec2i{X: 4, Y: 4}, NewRecordingBackend(4, 4))
	if err := r.SetViewportSize(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("SetViewportSize: err = %v, want ErrInvalidSize", err)
	}
	if err := r.SetDisplaySize(math.Vec2i{X: -1, Y: 2}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("SetDisplaySize: err = %v, want ErrInvalidSize", err)
	}
}

func TestNDCToViewport(t *testing.T) {
	size := math.Vec2i{X: 100, Y: 50}
	if got := NDCToViewport(math.NewVec2(-1, 1), size); got != (math.Vec2{}) {
		t.Errorf("top left = %v, want (0, 0)", got)
	}
	if got := NDCToViewport(math.NewVec2(1, -1), size); got != (math.Vec2{X: 100, Y: 50}) {
		t.Errorf("bottom right = %v, want (100, 50)", got)
	}
}

func TestRecordingBackendFrameDiscipline(t *testing.T) {
	b := NewRecordingBackend(1, 1)
	if err := b.DrawQuad(Quad{}); !errors.Is(err, ErrNoFrame) {
		t.Errorf("DrawQuad outside frame: err = %v, want ErrNoFrame", err)
	}
	_ = b.Begin(math.Vec4{})
	if err := b.Begin(math.Vec4{}); !errors.Is(err, ErrFrameOpen) {
		t.Errorf("nested Begin: err = %v, want ErrFrameOpen", err)
	}
	_ = b.End()

	b.Keep = 2
	for i := 0; i < 5; i++ {
		_ = b.Begin(math.Vec4{})
		_ = b.End()
	}
	if len(b.Frames()) != 2 {
		t.Errorf("frames = %d, want 2", len(b.Frames()))
	}
}
