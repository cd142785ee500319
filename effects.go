package quad

import (
	"fmt"

	"github.com/gogpu/quad/effect"
)

// RegisterEffect adds e and returns its id. The first effect registered
// becomes the default effect, used whenever a material names an effect
// that does not exist.
func (r *Renderer) RegisterEffect(e effect.Effect) uint16 {
	e.ID = uint16(r.effects.Len())
	r.effects.Add(e)
	if e.ID == 0 {
		r.defaultEffect = e.ID
	}
	if !e.ExactBlend() {
		r.log.Warn("quad: effect blend factor has no exact GPU equivalent, using one",
			"effect", e.Name, "src", e.BlendSrc, "dst", e.BlendDst)
	}
	r.log.Info("quad: effect registered", "name", e.Name, "id", e.ID, "program", e.Program)
	return e.ID
}

// LoadEffect compiles WGSL sources from the renderer's filesystem and
// registers the result. An empty fragmentFile means vertexFile holds both
// entry points. configure, when not nil, adjusts the effect's render state
// before registration.
func (r *Renderer) LoadEffect(name, vertexFile, fragmentFile string, configure func(effect.Effect) effect.Effect) (uint16, error) {
	e, err := effect.Load(r.fs, r.be, name, vertexFile, fragmentFile)
	if err != nil {
		return 0, fmt.Errorf("quad: load effect %s: %w", name, err)
	}
	if configure != nil {
		e = configure(e)
	}
	return r.RegisterEffect(e), nil
}

// FindEffect returns the id of the effect called name.
func (r *Renderer) FindEffect(name string) (uint16, bool) {
	i, ok := r.effects.FindIndex(func(e effect.Effect) bool { return e.Name == name })
	return uint16(i), ok
}

// Effect returns the effect with id.
func (r *Renderer) Effect(id uint16) (effect.Effect, bool) {
	return r.effects.Get(int(id))
}

// DefaultEffect returns the id of the default effect.
func (r *Renderer) DefaultEffect() uint16 { return r.defaultEffect }

// SetDefaultEffect makes id the fallback effect. Unknown ids are ignored.
func (r *Renderer) SetDefaultEffect(id uint16) {
	if _, ok := r.effects.Get(int(id)); !ok {
		r.log.Warn("quad: unknown default effect", "id", id)
		return
	}
	r.defaultEffect = id
}

// EffectCount returns the number of registered effects.
func (r *Renderer) EffectCount() int { return r.effects.Len() }

// effectFor returns the effect with id, falling back to the default one.
// Missing the default effect means Setup never ran and is fatal.
func (r *Renderer) effectFor(id uint16) effect.Effect {
	if e, ok := r.effects.Get(int(id)); ok {
		return e
	}
	e, ok := r.effects.Get(int(r.defaultEffect))
	if !ok {
		panic("quad: no default render effect")
	}
	r.log.Warn("quad: unknown effect, using default", "effect", id, "default", e.Name)
	return e
}
