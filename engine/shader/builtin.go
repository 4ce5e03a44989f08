package shader

import (
	"embed"
	"fmt"
)

const (
	Basic2D   = "basic_2d"
	BasicText = "basic_text"
)

//go:embed builtin/*.glsl
var builtinFS embed.FS

// BuiltinNames lists the programs shipped with the engine.
func BuiltinNames() []string {
	return []string{Basic2D, BasicText}
}

// LoadBuiltin compiles and links one of the shipped programs.
func LoadBuiltin(name string) (*Program, error) {
	vertSrc, err := builtinFS.ReadFile("builtin/" + name + ".vert.glsl")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
	}
	fragSrc, err := builtinFS.ReadFile("builtin/" + name + ".frag.glsl")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
	}
	return FromSource(name, string(vertSrc), string(fragSrc))
}

// FromSource compiles both stages and links them into a program.
func FromSource(name, vertexSource, fragmentSource string) (*Program, error) {
	vert := New(Vertex, name+"_vertex_shader", vertexSource)
	if err := vert.Compile(); err != nil {
		return nil, err
	}
	frag := New(Fragment, name+"_fragment_shader", fragmentSource)
	if err := frag.Compile(); err != nil {
		return nil, err
	}
	program, err := Build(name, vert, frag)
	if err != nil {
		return nil, err
	}
	if err := program.Link(); err != nil {
		return nil, err
	}
	return program, nil
}
