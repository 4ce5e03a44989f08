package systems

import (
	"errors"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
)

// TweenProperty selects which part of a Drawable a TweenGroup writes.
type TweenProperty int

const (
	TweenPosition TweenProperty = iota
	TweenScale
	TweenColor
)

// TweenGroup animates up to 4 components of one property of the Drawable
// stored under Target. Store it in the resource store and the
// AnimationSystem advances it every frame. Finished groups are removed.
type TweenGroup struct {
	Target   string
	Property TweenProperty
	Done     bool

	tweens [4]*gween.Tween
	count  int
}

func newGroup(target string, property TweenProperty, from, to []float32, duration float32, fn ease.TweenFunc) TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := TweenGroup{Target: target, Property: property, count: len(from)}
	for i := range from {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	return g
}

// NewPositionTween moves the target between two positions.
func NewPositionTween(target string, from, to math.Vec3, duration float32, fn ease.TweenFunc) TweenGroup {
	return newGroup(target, TweenPosition, []float32{from.X, from.Y}, []float32{to.X, to.Y}, duration, fn)
}

// NewScaleTween resizes the target.
func NewScaleTween(target string, from, to math.Vec3, duration float32, fn ease.TweenFunc) TweenGroup {
	return newGroup(target, TweenScale, []float32{from.X, from.Y}, []float32{to.X, to.Y}, duration, fn)
}

// NewColorTween fades the target between two colors.
func NewColorTween(target string, from, to math.Vec4, duration float32, fn ease.TweenFunc) TweenGroup {
	return newGroup(target, TweenColor,
		[]float32{from.X, from.Y, from.Z, from.W},
		[]float32{to.X, to.Y, to.Z, to.W},
		duration, fn)
}

// Update advances the group by dt seconds and returns the current values.
func (g *TweenGroup) Update(dt float32) [4]float32 {
	var values [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		values[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	return values
}

func (g *TweenGroup) apply(d renderer.Drawable, v [4]float32) {
	switch g.Property {
	case TweenPosition:
		p := d.Position()
		d.SetPosition(math.NewVec3(v[0], v[1], p.Z))
	case TweenScale:
		s := d.Scale()
		d.SetScale(math.NewVec3(v[0], v[1], s.Z))
	case TweenColor:
		d.SetColor(math.NewVec4(v[0], v[1], v[2], v[3]))
	}
}

// AnimationSystem drives every TweenGroup in the store.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

// Update advances all tweens by dt seconds and writes the values to their
// targets. A tween whose target is gone is dropped. When the tweens or a
// target are borrowed elsewhere the frame is skipped for them.
func (a *AnimationSystem) Update(store *resources.Store, dt float32) error {
	finished, err := a.advance(store, dt)
	if err != nil {
		return err
	}
	for _, key := range finished {
		if err := resources.Remove[TweenGroup](store, key); err != nil {
			core.LogWarn("removing tween %s: %v", key, err)
		}
	}
	return nil
}

// advance steps every tween and returns the keys of the finished ones. The
// tweens stay borrowed until it returns.
func (a *AnimationSystem) advance(store *resources.Store, dt float32) ([]string, error) {
	groups, err := resources.QueryMut[TweenGroup](store)
	if errors.Is(err, resources.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer resources.ReleaseAllMut(groups)

	var finished []string
	for _, ref := range groups {
		g := ref.Get()
		if g.Done {
			finished = append(finished, ref.Key())
			continue
		}
		values := g.Update(dt)
		err := resources.WithMut(store, g.Target, func(d *renderer.Drawable) error {
			g.apply(*d, values)
			return nil
		})
		switch {
		case errors.Is(err, resources.ErrNotFound):
			core.LogWarn("tween %s: target %s is gone", ref.Key(), g.Target)
			g.Done = true
		case err != nil:
			core.LogDebug("tween %s: %v", ref.Key(), err)
		}
		if g.Done {
			finished = append(finished, ref.Key())
		}
	}
	return finished, nil
}
