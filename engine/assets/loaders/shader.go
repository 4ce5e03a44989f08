package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spaghettifunk/graphpunk/engine/shader"
)

// ShaderLoader reads GLSL stages named <name>.vert.glsl or <name>.frag.glsl
// and compiles them.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string) (*Resource, error) {
	name, stage, err := ShaderStage(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := shader.New(stage, filepath.Base(path), string(data))
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return &Resource{
		Name:     name,
		FullPath: path,
		Type:     ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data:     s,
		LoadedAt: time.Now(),
	}, nil
}

func (sl *ShaderLoader) Unload(r *Resource) error {
	r.Data = nil
	r.DataSize = 0
	return nil
}

// ShaderStage splits a shader file name into its program name and stage.
func ShaderStage(path string) (string, shader.ShaderType, error) {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".vert.glsl"):
		return strings.TrimSuffix(base, ".vert.glsl"), shader.Vertex, nil
	case strings.HasSuffix(base, ".frag.glsl"):
		return strings.TrimSuffix(base, ".frag.glsl"), shader.Fragment, nil
	default:
		return "", 0, fmt.Errorf("%w: %s is not a .vert.glsl or .frag.glsl file", ErrUnsupported, path)
	}
}
