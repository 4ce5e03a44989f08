package shader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spaghettifunk/graphpunk/engine/math"
)

// Uniform is one declared uniform and the last value sent to it.
type Uniform struct {
	Name  string
	Type  string
	Value any
}

// Program is a vertex and a fragment shader linked together.
type Program struct {
	Name string

	vertex   *Shader
	fragment *Shader
	linked   bool
	uniforms map[string]*Uniform
}

// Build pairs two shaders. The first must be a vertex shader and the second
// a fragment shader.
func Build(name string, vertex, fragment *Shader) (*Program, error) {
	if !vertex.IsVertexShader() {
		return nil, &CompileError{Name: vertex.Name, Err: fmt.Errorf("%w: want vertex, got %s", ErrWrongStage, vertex.Type)}
	}
	if !fragment.IsFragmentShader() {
		return nil, &CompileError{Name: fragment.Name, Err: fmt.Errorf("%w: want fragment, got %s", ErrWrongStage, fragment.Type)}
	}
	return &Program{
		Name:     name,
		vertex:   vertex,
		fragment: fragment,
	}, nil
}

// Link merges the uniforms of both stages. Both shaders must be compiled and
// a uniform declared in both stages must have the same type.
func (p *Program) Link() error {
	for _, s := range []*Shader{p.vertex, p.fragment} {
		if !s.IsCompiled() {
			return &CompileError{Name: p.Name, Err: fmt.Errorf("%w: %s", ErrNotCompiled, s.Name)}
		}
	}

	uniforms := make(map[string]*Uniform)
	for _, s := range []*Shader{p.vertex, p.fragment} {
		for name, glslType := range s.uniforms {
			if u, ok := uniforms[name]; ok && u.Type != glslType {
				return &CompileError{Name: p.Name, Err: fmt.Errorf("uniform %s declared as %s and %s", name, u.Type, glslType)}
			}
			uniforms[name] = &Uniform{Name: name, Type: glslType}
		}
	}
	p.uniforms = uniforms
	p.linked = true
	return nil
}

func (p *Program) IsLinked() bool {
	return p.linked
}

// SetUniform stores value for the named uniform. The Go type must match the
// declared GLSL type: float32, int32, math.Vec2/3/4 or math.Mat4.
func (p *Program) SetUniform(name string, value any) error {
	if !p.linked {
		return &CompileError{Name: p.Name, Err: ErrNotLinked}
	}
	u, ok := p.uniforms[name]
	if !ok {
		return &CompileError{Name: p.Name, Err: fmt.Errorf("%w: %s", ErrUniformNotFound, name)}
	}
	if !accepts(u.Type, value) {
		return &CompileError{Name: p.Name, Err: fmt.Errorf("%w: %s is %s, got %T", ErrUniformType, name, u.Type, value)}
	}
	u.Value = value
	return nil
}

// Uniform returns the last value sent to name.
func (p *Program) Uniform(name string) (any, bool) {
	u, ok := p.uniforms[name]
	if !ok || u.Value == nil {
		return nil, false
	}
	return u.Value, true
}

// Uniforms lists the declared uniform names, sorted.
func (p *Program) Uniforms() []string {
	return slices.Sorted(maps.Keys(p.uniforms))
}

// Clone returns a program sharing the shaders but with its own uniform
// values, so every drawable can keep its own color and model.
func (p *Program) Clone() *Program {
	c := &Program{
		Name:     p.Name,
		vertex:   p.vertex,
		fragment: p.fragment,
		linked:   p.linked,
		uniforms: make(map[string]*Uniform, len(p.uniforms)),
	}
	for name, u := range p.uniforms {
		cu := *u
		c.uniforms[name] = &cu
	}
	return c
}

func accepts(glslType string, value any) bool {
	switch glslType {
	case "float":
		_, ok := value.(float32)
		return ok
	case "int", "sampler2D":
		_, ok := value.(int32)
		return ok
	case "bool":
		_, ok := value.(bool)
		return ok
	case "vec2":
		_, ok := value.(math.Vec2)
		return ok
	case "vec3":
		_, ok := value.(math.Vec3)
		return ok
	case "vec4":
		_, ok := value.(math.Vec4)
		return ok
	case "mat4":
		_, ok := value.(math.Mat4)
		return ok
	default:
		return false
	}
}
