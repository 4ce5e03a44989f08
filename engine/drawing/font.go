package drawing

import (
	"fmt"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphMetrics describes one character in font pixels. Offsets are measured
// from the pen position at the top of the line.
type GlyphMetrics struct {
	OffsetX float32
	OffsetY float32
	Width   float32
	Height  float32
	Advance float32
}

// Font provides the metrics Text needs to lay out characters.
type Font interface {
	Name() string
	LineHeight() float32
	Glyph(r rune) (GlyphMetrics, bool)
	Kerning(left, right rune) float32
}

type kerningPair struct {
	first, second rune
}

// BitmapFont is a font described by an AngelCode BMFont file.
type BitmapFont struct {
	face       string
	size       int
	lineHeight float32
	baseline   float32
	pages      []string
	glyphs     map[rune]GlyphMetrics
	kernings   map[kerningPair]float32
}

// LoadBitmapFont reads a .fnt descriptor and its page images.
func LoadBitmapFont(path string) (*BitmapFont, error) {
	f, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading bitmap font %s: %w", path, err)
	}
	d := f.Descriptor

	out := &BitmapFont{
		face:       d.Info.Face,
		size:       int(d.Info.Size),
		lineHeight: float32(d.Common.LineHeight),
		baseline:   float32(d.Common.Base),
		glyphs:     make(map[rune]GlyphMetrics, len(d.Chars)),
		kernings:   make(map[kerningPair]float32, len(d.Kerning)),
	}
	for _, p := range d.Pages {
		out.pages = append(out.pages, p.File)
	}
	for _, g := range d.Chars {
		out.glyphs[rune(g.ID)] = GlyphMetrics{
			OffsetX: float32(g.XOffset),
			OffsetY: float32(g.YOffset),
			Width:   float32(g.Width),
			Height:  float32(g.Height),
			Advance: float32(g.XAdvance),
		}
	}
	for p, k := range d.Kerning {
		out.kernings[kerningPair{rune(p.First), rune(p.Second)}] = float32(k.Amount)
	}
	return out, nil
}

func (f *BitmapFont) Name() string {
	return fmt.Sprintf("%s %d", f.face, f.size)
}

func (f *BitmapFont) LineHeight() float32 {
	return f.lineHeight
}

func (f *BitmapFont) Baseline() float32 {
	return f.baseline
}

// Pages lists the atlas image files.
func (f *BitmapFont) Pages() []string {
	return f.pages
}

func (f *BitmapFont) Glyph(r rune) (GlyphMetrics, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

func (f *BitmapFont) Kerning(left, right rune) float32 {
	return f.kernings[kerningPair{left, right}]
}

// FaceFont adapts a golang.org/x/image font face.
type FaceFont struct {
	name string
	face font.Face
}

func NewFaceFont(name string, face font.Face) *FaceFont {
	return &FaceFont{name: name, face: face}
}

// DefaultFont is the fixed 7x13 face bundled with x/image.
func DefaultFont() *FaceFont {
	return NewFaceFont("basic 7x13", basicfont.Face7x13)
}

// LoadOpenTypeFont parses TrueType or OpenType data at the given size in
// points, at 72 DPI.
func LoadOpenTypeFont(name string, data []byte, size float64) (*FaceFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face %s: %w", name, err)
	}
	return NewFaceFont(name, face), nil
}

func (f *FaceFont) Name() string {
	return f.name
}

func (f *FaceFont) Face() font.Face {
	return f.face
}

func (f *FaceFont) LineHeight() float32 {
	return toFloat(f.face.Metrics().Height)
}

func (f *FaceFont) Glyph(r rune) (GlyphMetrics, bool) {
	bounds, advance, ok := f.face.GlyphBounds(r)
	if !ok {
		return GlyphMetrics{}, false
	}
	ascent := toFloat(f.face.Metrics().Ascent)
	return GlyphMetrics{
		OffsetX: toFloat(bounds.Min.X),
		OffsetY: ascent + toFloat(bounds.Min.Y),
		Width:   toFloat(bounds.Max.X - bounds.Min.X),
		Height:  toFloat(bounds.Max.Y - bounds.Min.Y),
		Advance: toFloat(advance),
	}, true
}

func (f *FaceFont) Kerning(left, right rune) float32 {
	return toFloat(f.face.Kern(left, right))
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
