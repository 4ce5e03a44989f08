package platform

import (
	stdmath "math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
)

// Terminal presents frames on a tcell screen. Every cell is one viewport
// unit: quads fill cell backgrounds and glyphs set cell runes.
type Terminal struct {
	screen  tcell.Screen
	events  chan tcell.Event
	done    chan struct{}
	wg      sync.WaitGroup
	backend *terminalBackend
	held    held
	started bool
}

// NewTerminal creates a terminal platform on the process terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as tcell's simulation
// screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:  screen,
		events:  make(chan tcell.Event, 64),
		done:    make(chan struct{}),
		backend: &terminalBackend{screen: screen},
	}
}

func (t *Terminal) Startup(applicationName string) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	t.screen.SetTitle(applicationName)
	t.screen.Clear()
	t.started = true

	t.wg.Add(1)
	go t.poll()

	core.LogDebug("terminal platform started")
	return nil
}

func (t *Terminal) poll() {
	defer t.wg.Done()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) PumpMessages(keys *core.Keys, events *core.EventBus) bool {
	t.held.release(keys, events, t)
	for {
		select {
		case ev := <-t.events:
			if !t.handle(ev, keys, events) {
				return false
			}
		default:
			return true
		}
	}
}

func (t *Terminal) handle(ev tcell.Event, keys *core.Keys, events *core.EventBus) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			events.Fire(core.EVENT_CODE_APPLICATION_QUIT, t, core.EventContext{})
			return false
		case tcell.KeyRune:
			k, err := core.ParseKey(ev.Rune())
			if err != nil {
				core.LogDebug("ignoring key: %v", err)
				return true
			}
			t.held.press(keys, events, t, k)
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		t.screen.Sync()
		events.Fire(core.EVENT_CODE_RESIZED, t, core.EventContext{Width: uint32(w), Height: uint32(h)})
	}
	return true
}

func (t *Terminal) Backend() renderer.Backend {
	return t.backend
}

func (t *Terminal) Shutdown() error {
	if !t.started {
		return nil
	}
	t.started = false
	close(t.done)
	t.screen.Fini()
	t.wg.Wait()
	return nil
}

type terminalBackend struct {
	screen tcell.Screen
	clear  math.Vec4
}

func (b *terminalBackend) Begin(clear math.Vec4) error {
	b.clear = clear
	b.screen.Fill(' ', tcell.StyleDefault.Background(toColor(clear)))
	return nil
}

func (b *terminalBackend) DrawQuad(q renderer.Quad) error {
	x0, y0, x1, y1 := b.cells(q.Min, q.Max)
	// Alpha blends against the clear color, cells have no other backdrop.
	style := tcell.StyleDefault.Background(toColor(b.clear.Lerp(q.Color, q.Color.W)))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	return nil
}

func (b *terminalBackend) DrawGlyph(g renderer.Glyph) error {
	x0, y0, x1, y1 := b.cells(g.Min, g.Max)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	_, _, style, _ := b.screen.GetContent(x0, y0)
	b.screen.SetContent(x0, y0, g.Rune, nil, style.Foreground(toColor(g.Color)))
	return nil
}

func (b *terminalBackend) End() error {
	b.screen.Show()
	return nil
}

func (b *terminalBackend) Size() math.Vec2i {
	w, h := b.screen.Size()
	return math.Vec2i{X: int32(w), Y: int32(h)}
}

// cells returns the half open cell range covered by an NDC rectangle,
// clipped to the screen. Anything that covers part of a cell gets at least
// that cell.
func (b *terminalBackend) cells(min, max math.Vec2) (x0, y0, x1, y1 int) {
	size := b.Size()
	p0 := renderer.NDCToViewport(min, size)
	p1 := renderer.NDCToViewport(max, size)

	x0, x1 = span(p0.X, p1.X)
	y0, y1 = span(p0.Y, p1.Y)

	x0 = math.Clamp(x0, 0, int(size.X))
	x1 = math.Clamp(x1, 0, int(size.X))
	y0 = math.Clamp(y0, 0, int(size.Y))
	y1 = math.Clamp(y1, 0, int(size.Y))
	return x0, y0, x1, y1
}

func span(a, b float32) (int, int) {
	if a > b {
		a, b = b, a
	}
	lo := int(stdmath.Round(float64(a)))
	hi := int(stdmath.Round(float64(b)))
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func toColor(c math.Vec4) tcell.Color {
	channel := func(v float32) int32 {
		return int32(math.Clamp(v, 0, 1)*255 + 0.5)
	}
	return tcell.NewRGBColor(channel(c.X), channel(c.Y), channel(c.Z))
}
