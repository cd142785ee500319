package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/quad/backend/null"
	"github.com/gogpu/quad/geom"
)

// pngBytes encodes a w x h image filled with c.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	data := pngBytes(t, 3, 2, color.NRGBA{R: 255, A: 255})
	img, format, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if c := img.RGBAAt(2, 1); c.R != 255 || c.A != 255 {
		t.Errorf("pixel = %v", c)
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode(garbage) succeeded")
	}
}

func TestToRGBAOffsetOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.SetRGBA(6, 5, color.RGBA{G: 200, A: 255})
	dst := ToRGBA(src)
	if dst.Rect.Min != (image.Point{}) {
		t.Fatalf("origin = %v, want 0,0", dst.Rect.Min)
	}
	if c := dst.RGBAAt(1, 0); c.G != 200 {
		t.Errorf("pixel = %v", c)
	}
}

func TestUploadAndWithName(t *testing.T) {
	be := null.New()
	tex, err := Upload(be, "ship", image.NewRGBA(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if tex.Handle == 0 || tex.Width != 4 || tex.Height != 2 || !tex.UV.IsIdentity() {
		t.Errorf("texture = %+v", tex)
	}
	alias := tex.WithName("hero")
	if alias.Name != "hero" || alias.Handle != tex.Handle || alias.UV != tex.UV {
		t.Errorf("alias = %+v", alias)
	}
	if tex.Size() != geom.V2(4, 2) {
		t.Errorf("Size() = %v", tex.Size())
	}
}
