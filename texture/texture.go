// Package texture resolves texture names into backend textures.
//
// A name resolves in one of three ways: a reference file `<name>.omtr`
// whose first line names another texture, an atlas manifest
// `<name>.atlas.yaml` describing named regions of one image, or a plain
// image `<name>.png` (or another supported extension). The Loader performs
// that resolution from a command queue, a bounded number of commands per
// frame, so drawing never waits for I/O.
package texture

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/geom"
)

// Texture is a registered, drawable texture: a backend handle plus the
// transform that maps unit quad coordinates into the region of the handle
// the texture occupies.
type Texture struct {
	ID     uint16
	Name   string
	Handle backend.Handle
	UV     geom.Affine
	Width  int
	Height int
}

// WithName returns a copy registered under another name. The copy shares
// the handle and region.
func (t Texture) WithName(name string) Texture {
	t.Name = name
	return t
}

// Size returns the texture size in texels.
func (t Texture) Size() geom.Vec2 {
	return geom.V2(float32(t.Width), float32(t.Height))
}

// Decode reads an image in any registered format and returns it as RGBA.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode: %w", err)
	}
	return ToRGBA(img), format, nil
}

// ToRGBA converts img to an *image.RGBA anchored at the origin. RGBA
// images already at the origin are returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Upload creates a backend texture from img and returns it as a full
// texture named name.
func Upload(be backend.Backend, name string, img image.Image) (Texture, error) {
	rgba := ToRGBA(img)
	size := rgba.Bounds().Size()
	h, err := be.CreateTexture(size.X, size.Y, rgba.Pix)
	if err != nil {
		return Texture{}, fmt.Errorf("texture: upload %s: %w", name, err)
	}
	return Texture{
		Name:   name,
		Handle: h,
		UV:     geom.Identity(),
		Width:  size.X,
		Height: size.Y,
	}, nil
}
