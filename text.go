package quad

import (
	"fmt"
	"image"

	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/font"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/vfs"
)

// Font file extensions LoadFont tries after the bitmap description.
var fontExtensions = []string{".ttf", ".otf"}

// Debug outline colors used by Print.
var (
	textBoxColor    = color.RGBA(0.9, 0.75, 0.3, 0.6)
	textLayoutColor = color.RGBA(0.4, 0.75, 0.3, 0.6)
	textGlyphColor  = color.RGBA(1, 0, 0, 1)
)

// layoutCacheSize bounds the number of text layouts Print keeps.
const layoutCacheSize = 256

type layoutKey struct {
	font uint8
	text string
}

// RegisterFont makes f available as font id. The font's texture is loaded
// now when it is not registered yet, and glyph regions are resolved
// against its size.
func (r *Renderer) RegisterFont(id uint8, f *font.Font) error {
	if _, ok := r.textureNames[f.Texture]; !ok {
		if err := r.LoadTexture(f.Texture); err != nil {
			return fmt.Errorf("quad: font %s: %w", f.Name, err)
		}
	}
	t, _ := r.FindTexture(f.Texture)
	f.SetTextureSize(t.Width, t.Height)
	r.fonts[id] = f
	r.layouts.Clear()
	r.log.Info("quad: font registered", "id", id, "name", f.Name, "texture", f.Texture, "glyphs", f.Len())
	return nil
}

// RegisterFontImage uploads atlas as the font's texture and registers f
// as font id.
func (r *Renderer) RegisterFontImage(id uint8, f *font.Font, atlas image.Image) error {
	if _, err := r.UploadTexture(f.Texture, atlas); err != nil {
		return fmt.Errorf("quad: font %s: %w", f.Name, err)
	}
	return r.RegisterFont(id, f)
}

// RegisterOpenTypeFont rasterises the printable ASCII range of ttf at size
// pixels per em and registers it as font id. Kerning comes from HarfBuzz
// shaping when the font can be shaped.
func (r *Renderer) RegisterOpenTypeFont(id uint8, name string, ttf []byte, size float64) error {
	f, atlas, err := font.NewOpenType(name, ttf, size, font.ASCII())
	if err != nil {
		return fmt.Errorf("quad: %w", err)
	}
	if sh, err := font.NewShaper(ttf); err == nil {
		f.SetKerner(sh.Kerner(size))
	} else {
		r.log.Debug("quad: font cannot be shaped, using kern table", "name", name, "err", err)
	}
	return r.RegisterFontImage(id, f, atlas)
}

// LoadFont loads font id from the renderer's filesystem: a bitmap font
// description `<name>.font.yaml`, or else an OpenType file `<name>.ttf`
// or `<name>.otf` rasterised at DefaultFontSize.
func (r *Renderer) LoadFont(id uint8, name string) error {
	if !r.ready {
		return ErrNotSetup
	}
	if r.fs.Exists(name + font.DescriptionSuffix) {
		f, err := font.LoadBitmap(r.fs, name)
		if err != nil {
			return fmt.Errorf("quad: %w", err)
		}
		return r.RegisterFont(id, f)
	}
	for _, ext := range fontExtensions {
		if !r.fs.Exists(name + ext) {
			continue
		}
		ttf, err := vfs.ReadAll(r.fs, name+ext)
		if err != nil {
			return fmt.Errorf("quad: %w", err)
		}
		return r.RegisterOpenTypeFont(id, name, ttf, DefaultFontSize)
	}
	return fmt.Errorf("quad: font %s: %w", name, vfs.ErrNotExist)
}

// SetTextDebug enables outlines of text boxes, layouts and glyphs in the
// attached debug renderer.
func (r *Renderer) SetTextDebug(enabled bool) { r.textDebug = enabled }

// Print draws text with the active font inside the box of size centred on
// pos. alignment ranges over [-1, 1] per axis: -1 aligns to the left or
// bottom edge, 0 centres, 1 aligns to the right or top edge. The texture
// bound to channel 0 and the texture matrix are restored afterwards.
func (r *Renderer) Print(pos, size, alignment geom.Vec2, text string) {
	f, ok := r.fonts[r.activeFont]
	if !ok {
		r.log.Warn("quad: print with unknown font", "font", r.activeFont)
		return
	}
	saved, savedUV := r.channelIDs[0], r.texMatrix
	r.UseTexture(f.Texture)

	layout := r.layouts.GetOrCreate(layoutKey{r.activeFont, text}, func() font.Layout {
		return f.Layout(text)
	})
	layoutPos := pos.Add(size.Sub(layout.Size).Scale(0.5).Mul(alignment))
	origin := layoutPos.Sub(layout.Size.Scale(0.5))

	debug := r.textDebug && r.debug != nil
	for _, q := range layout.Quads {
		r.SetTexMatrix(q.UV)
		r.RenderTexturedQuad(q.Pos.Add(origin), q.Size)
		if debug {
			r.debug.AddFrame(q.Pos.Add(origin), q.Size, 3, textGlyphColor)
		}
	}
	r.SetTexMatrix(savedUV)
	r.channelIDs[0] = saved
	r.switchMaterial()

	if debug {
		r.debug.AddFrame(pos, size, 5, textBoxColor)
		r.debug.AddFrame(layoutPos, layout.Size, 3, textLayoutColor)
	}
}
