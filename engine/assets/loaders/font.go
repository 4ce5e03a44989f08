package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spaghettifunk/graphpunk/engine/drawing"
)

// BitmapFontLoader reads AngelCode .fnt descriptors.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string) (*Resource, error) {
	f, err := drawing.LoadBitmapFont(path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     baseName(path),
		FullPath: path,
		Type:     ResourceTypeBitmapFont,
		Data:     f,
		LoadedAt: time.Now(),
	}, nil
}

func (fl *BitmapFontLoader) Unload(r *Resource) error {
	r.Data = nil
	return nil
}

const DefaultFontSize = 13

// SystemFontLoader reads TrueType and OpenType files.
type SystemFontLoader struct {
	// Size in points, DefaultFontSize when zero.
	Size float64
}

func (fl *SystemFontLoader) Load(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	size := fl.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := drawing.LoadOpenTypeFont(baseName(path), data, size)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     baseName(path),
		FullPath: path,
		Type:     ResourceTypeSystemFont,
		DataSize: uint64(len(data)),
		Data:     f,
		LoadedAt: time.Now(),
	}, nil
}

func (fl *SystemFontLoader) Unload(r *Resource) error {
	r.Data = nil
	r.DataSize = 0
	return nil
}

// TextLoader keeps the file content as a string.
type TextLoader struct{}

func (tl *TextLoader) Load(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Name:     baseName(path),
		FullPath: path,
		Type:     ResourceTypeText,
		DataSize: uint64(len(data)),
		Data:     string(data),
		LoadedAt: time.Now(),
	}, nil
}

func (tl *TextLoader) Unload(r *Resource) error {
	r.Data = nil
	r.DataSize = 0
	return nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
