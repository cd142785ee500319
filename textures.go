package quad

import (
	"fmt"
	"image"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/texture"
)

// textureResolver lets the texture loader fill the renderer's registry.
type textureResolver struct{ r *Renderer }

func (t textureResolver) Has(name string) bool {
	_, ok := t.r.textureNames[name]
	return ok
}

func (t textureResolver) Alias(target, alias string) bool {
	return t.r.AliasTexture(target, alias)
}

func (t textureResolver) Register(textures ...texture.Texture) {
	for _, tex := range textures {
		t.r.RegisterTexture(tex)
	}
}

// RegisterTexture adds t to the registry and returns its id. The first
// texture registered gets id 0 and becomes the fallback for every missing
// texture. Registering a name twice keeps the first texture.
func (r *Renderer) RegisterTexture(t texture.Texture) uint16 {
	if i, ok := r.textureNames[t.Name]; ok {
		r.log.Debug("quad: texture already registered", "name", t.Name, "id", i)
		return uint16(i)
	}
	t.ID = uint16(r.textures.Len())
	i := r.textures.Add(t)
	r.textureNames[t.Name] = i
	r.log.Debug("quad: texture registered", "name", t.Name, "id", i,
		"handle", t.Handle, "width", t.Width, "height", t.Height)
	return t.ID
}

// AliasTexture registers alias as another name for the texture target.
// It fails when target is unknown or alias is taken.
func (r *Renderer) AliasTexture(target, alias string) bool {
	i, ok := r.textureNames[target]
	if !ok {
		return false
	}
	if _, taken := r.textureNames[alias]; taken {
		return false
	}
	t, _ := r.textures.Get(i)
	r.RegisterTexture(t.WithName(alias))
	return true
}

// FindTexture returns the texture registered as name.
func (r *Renderer) FindTexture(name string) (texture.Texture, bool) {
	i, ok := r.textureNames[name]
	if !ok {
		return texture.Texture{}, false
	}
	return r.textures.Get(i)
}

// Texture returns the texture with id.
func (r *Renderer) Texture(id uint16) (texture.Texture, bool) {
	return r.textures.Get(int(id))
}

// TextureCount returns the number of registered textures, aliases included.
func (r *Renderer) TextureCount() int { return r.textures.Len() }

// RequestTexture queues a background load of name. It may be called from
// any goroutine; the load happens during a later Update.
func (r *Renderer) RequestTexture(name string) bool {
	if r.loader == nil {
		return false
	}
	return r.loader.Request(name)
}

// LoadTexture loads name immediately, following no references. It is meant
// for setup time; draws use the background loader.
func (r *Renderer) LoadTexture(name string) error {
	if !r.ready {
		return ErrNotSetup
	}
	if _, ok := r.textureNames[name]; ok {
		return nil
	}
	textures, err := texture.LoadAll(r.fs, r.be, name)
	if err != nil {
		return fmt.Errorf("quad: %w", err)
	}
	for _, t := range textures {
		r.RegisterTexture(t)
	}
	return nil
}

// UploadTexture creates a backend texture from img and registers it as
// name.
func (r *Renderer) UploadTexture(name string, img image.Image) (uint16, error) {
	if i, ok := r.textureNames[name]; ok {
		return uint16(i), nil
	}
	t, err := texture.Upload(r.be, name, img)
	if err != nil {
		return 0, fmt.Errorf("quad: %w", err)
	}
	return r.RegisterTexture(t), nil
}

// UpdateTextureImage replaces the pixels of the texture name in place.
// Every alias of the texture sees the change. The image must have the
// texture's size.
func (r *Renderer) UpdateTextureImage(name string, img image.Image) error {
	t, ok := r.FindTexture(name)
	if !ok {
		return fmt.Errorf("quad: update texture %s: not registered", name)
	}
	rgba := texture.ToRGBA(img)
	if size := rgba.Bounds().Size(); size.X != t.Width || size.Y != t.Height {
		return fmt.Errorf("quad: update texture %s: %w: image %dx%d, texture %dx%d",
			name, backend.ErrTextureData, size.X, size.Y, t.Width, t.Height)
	}
	if err := r.be.UpdateTexture(t.Handle, rgba.Pix); err != nil {
		return fmt.Errorf("quad: update texture %s: %w", name, err)
	}
	return nil
}

// RegisterAnimatedTexture makes a under name available to
// UseAnimatedTexture. EndFrame advances it by the frame time.
func (r *Renderer) RegisterAnimatedTexture(name string, a *texture.AnimatedTexture) {
	r.animated[name] = a
}

// AnimatedTexture returns the animation registered as name.
func (r *Renderer) AnimatedTexture(name string) (*texture.AnimatedTexture, bool) {
	a, ok := r.animated[name]
	return a, ok
}

// UseAnimatedTexture binds the current frame of the animation name to
// channel 0. Frames not loaded yet are requested like any other texture.
func (r *Renderer) UseAnimatedTexture(name string) {
	a, ok := r.animated[name]
	if !ok {
		r.log.Warn("quad: animated texture not found", "name", name)
		r.UseTextureID(0, 0)
		return
	}
	r.UseTexture(a.CurrentName())
}

// activeTexture returns the texture bound to channel, or texture 0.
func (r *Renderer) activeTexture(channel int) texture.Texture {
	if id := r.channelIDs[channel]; id >= 0 {
		if t, ok := r.textures.Get(int(id)); ok {
			return t
		}
	}
	t, _ := r.textures.Get(0)
	return t
}
