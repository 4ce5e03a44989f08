// Package shader holds shader sources and the programs built from them.
//
// Without a GPU there is nothing to upload, so compiling a shader means
// validating its source and collecting its uniform declarations. Programs
// keep the uniform values a backend needs to draw.
package shader

import (
	"regexp"
	"strings"
)

type ShaderType int

const (
	Vertex ShaderType = iota
	Fragment
)

func (t ShaderType) String() string {
	switch t {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

var (
	uniformPattern = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)
	mainPattern    = regexp.MustCompile(`\bvoid\s+main\s*\(\s*\)`)
)

type Shader struct {
	Type   ShaderType
	Name   string
	Source string

	compiled bool
	// uniform name -> GLSL type
	uniforms map[string]string
}

func New(shaderType ShaderType, name, source string) *Shader {
	return &Shader{
		Type:   shaderType,
		Name:   name,
		Source: source,
	}
}

// Compile validates the source and records its uniforms. Compiling twice
// is harmless.
func (s *Shader) Compile() error {
	if strings.TrimSpace(s.Source) == "" {
		return &CompileError{Name: s.Name, Err: ErrEmptySource}
	}
	if !mainPattern.MatchString(s.Source) {
		return &CompileError{Name: s.Name, Err: ErrNoEntryPoint}
	}
	s.uniforms = make(map[string]string)
	for _, match := range uniformPattern.FindAllStringSubmatch(s.Source, -1) {
		s.uniforms[match[2]] = match[1]
	}
	s.compiled = true
	return nil
}

func (s *Shader) IsCompiled() bool {
	return s.compiled
}

func (s *Shader) IsVertexShader() bool {
	return s.Type == Vertex
}

func (s *Shader) IsFragmentShader() bool {
	return s.Type == Fragment
}
