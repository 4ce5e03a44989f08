package loaders

import (
	"errors"
	"time"
)

type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypeText
	ResourceTypeImage
	ResourceTypeShader
	ResourceTypeBitmapFont
	ResourceTypeSystemFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeBitmapFont:
		return "bitmap font"
	case ResourceTypeSystemFont:
		return "system font"
	default:
		return "none"
	}
}

var ErrUnsupported = errors.New("unsupported file")

// Resource is what every loader produces. Data holds the decoded value: a
// *shader.Shader, an image.Image, a drawing font or the raw text.
type Resource struct {
	Name     string
	FullPath string
	Type     ResourceType
	DataSize uint64
	Data     any
	LoadedAt time.Time
}
