package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader decodes PNG, JPEG, BMP and WebP files.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	b := img.Bounds()
	return &Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     ResourceTypeImage,
		DataSize: uint64(b.Dx() * b.Dy() * 4),
		Data:     img,
		LoadedAt: time.Now(),
	}, nil
}

func (il *ImageLoader) Unload(r *Resource) error {
	r.Data = nil
	r.DataSize = 0
	return nil
}
