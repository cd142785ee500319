package quad

import (
	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/font"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/internal/material"
)

// switchMaterial makes the material matching the current layer, effect and
// texture channels active. Consecutive draws with the same state keep
// appending to the same material.
func (r *Renderer) switchMaterial() *material.Material {
	key := material.NewKey(r.layer, r.effect)
	for ch, id := range r.channelIDs {
		if id >= 0 {
			key.Textures[ch] = int64(r.activeTexture(ch).Handle)
		}
	}
	return r.materials.Switch(key)
}

// UseLayer directs following draws to layer. Lower layers are submitted
// first.
func (r *Renderer) UseLayer(layer uint8) {
	r.layer = layer
	r.switchMaterial()
}

// Layer returns the active layer.
func (r *Renderer) Layer() uint8 { return r.layer }

// UseEffect draws following geometry with the effect id.
func (r *Renderer) UseEffect(id uint16) {
	r.effect = id
	r.switchMaterial()
}

// UseTexture binds the texture name to channel 0.
func (r *Renderer) UseTexture(name string) {
	r.UseTextureInChannel(name, 0)
}

// UseTextureInChannel binds the texture name to channel. A name that is
// not registered binds texture 0 and asks the loader for it, so the draw
// shows the default texture until the load completes.
func (r *Renderer) UseTextureInChannel(name string, channel uint8) {
	if int(channel) >= backend.MaxTextureChannels {
		r.log.Warn("quad: texture channel out of range", "channel", channel, "texture", name)
		return
	}
	id := 0
	if i, ok := r.textureNames[name]; ok {
		id = i
	} else {
		queued := r.RequestTexture(name)
		r.log.Debug("quad: texture not found, using default", "frame", r.frame, "name", name, "queued", queued)
	}
	r.channelIDs[channel] = int32(id)
	r.switchMaterial()
}

// UseTextureID binds the texture with id to channel.
func (r *Renderer) UseTextureID(id uint16, channel uint8) {
	if int(channel) >= backend.MaxTextureChannels {
		r.log.Warn("quad: texture channel out of range", "channel", channel, "id", id)
		return
	}
	r.channelIDs[channel] = int32(id)
	r.switchMaterial()
}

// DisableTextureForChannel unbinds channel.
func (r *Renderer) DisableTextureForChannel(channel uint8) {
	if int(channel) >= backend.MaxTextureChannels || r.channelIDs[channel] == int32(material.NoTexture) {
		return
	}
	r.channelIDs[channel] = int32(material.NoTexture)
	r.switchMaterial()
}

// UseFont selects the font Print draws with.
func (r *Renderer) UseFont(id uint8) { r.activeFont = id }

// Font returns the font registered as id.
func (r *Renderer) Font(id uint8) (*font.Font, bool) {
	f, ok := r.fonts[id]
	return f, ok
}

// SetColor sets the color of following vertices.
func (r *Renderer) SetColor(c color.Color) { r.color = c }

// SetTexCoords sets the texture coordinate of following vertices.
func (r *Renderer) SetTexCoords(tc geom.Vec2) { r.texCoords = tc }

// SetTexMatrix sets the transform applied to texture coordinates before
// the texture's own region transform.
func (r *Renderer) SetTexMatrix(m geom.Affine) { r.texMatrix = m }

// SetMVPMatrix sets the projection every material is submitted with.
func (r *Renderer) SetMVPMatrix(m geom.Mat44) { r.mvp = m }

// MVPMatrix returns the projection matrix.
func (r *Renderer) MVPMatrix() geom.Mat44 { return r.mvp }

// PushLayerMatrix replaces the transform of layer with m until the
// matching PopLayerMatrix.
func (r *Renderer) PushLayerMatrix(layer uint8, m geom.Mat44) {
	r.layers.Get(layer).Push(m)
}

// PushMultiplyLayerMatrix composes m onto the transform of layer until the
// matching PopLayerMatrix.
func (r *Renderer) PushMultiplyLayerMatrix(layer uint8, m geom.Mat44) {
	r.layers.Get(layer).PushMultiply(m)
}

// PopLayerMatrix restores the previous transform of layer. Popping more
// than was pushed panics.
func (r *Renderer) PopLayerMatrix(layer uint8) {
	r.layers.Get(layer).Pop()
}

// LayerMatrix returns the effective transform of layer.
func (r *Renderer) LayerMatrix(layer uint8) geom.Mat44 {
	return r.layers.Top(layer)
}

// AddTranslationForLayer moves everything drawn on layer by offset for the
// rest of the frame.
func (r *Renderer) AddTranslationForLayer(layer uint8, offset geom.Vec2) {
	r.PushMultiplyLayerMatrix(layer, geom.Translation(geom.Vec3{X: offset.X, Y: offset.Y}))
}

// AddScalingForLayer scales everything drawn on layer for the rest of the
// frame.
func (r *Renderer) AddScalingForLayer(layer uint8, scaling float32) {
	r.PushMultiplyLayerMatrix(layer, geom.Scaling(scaling))
}

// SetViewport sets the backend region drawn into, in pixels from the
// bottom-left corner. It takes effect at the next BeginFrame.
func (r *Renderer) SetViewport(pos, size geom.Vec2) {
	r.viewportPos = pos
	r.viewportSize = size
}

// Viewport returns the viewport position and size.
func (r *Renderer) Viewport() (pos, size geom.Vec2) {
	return r.viewportPos, r.viewportSize
}

// SetSize sets the logical size fullscreen quads cover.
func (r *Renderer) SetSize(size geom.Vec2) { r.size = size }

// Size returns the logical size.
func (r *Renderer) Size() geom.Vec2 { return r.size }

// AspectRatio returns width over height of the logical size.
func (r *Renderer) AspectRatio() float32 {
	if r.size.Y == 0 {
		return 1
	}
	return r.size.X / r.size.Y
}
