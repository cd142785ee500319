package texture

import (
	"bytes"
	"errors"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/geom"
	"github.com/gogpu/quad/vfs"
)

// ErrEmptyAtlas is returned by LoadAll when a name resolves to no texture.
var ErrEmptyAtlas = errors.New("texture: atlas yields no textures")

// File name suffixes.
const (
	ManifestSuffix  = ".atlas.yaml"
	ReferenceSuffix = ".omtr"
)

// ImageExtensions are tried in order when a name has no manifest.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Entry is one named region of an atlas image.
type Entry struct {
	Name string `yaml:"name"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	W    int    `yaml:"w"`
	H    int    `yaml:"h"`
}

// Manifest describes an atlas: an image and the named regions inside it.
// Image is relative to the manifest's directory; it defaults to the atlas
// name plus ".png".
type Manifest struct {
	Image   string  `yaml:"image"`
	Entries []Entry `yaml:"textures"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("texture: parse manifest: %w", err)
	}
	return &m, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("texture: encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadAll loads every texture name describes.
//
// With a manifest, the image is uploaded once and each entry becomes a
// texture with its own region; unless an entry already carries the atlas
// name, the whole image is also returned under that name. Without a
// manifest, the first existing plain image becomes a single texture.
// Nothing found, or a manifest without entries, returns ErrEmptyAtlas.
func LoadAll(fs vfs.Filesystem, be backend.Backend, name string) ([]Texture, error) {
	manifestName := name + ManifestSuffix
	if fs.Exists(manifestName) {
		return loadManifest(fs, be, name, manifestName)
	}
	for _, ext := range ImageExtensions {
		if !fs.Exists(name + ext) {
			continue
		}
		t, err := LoadImage(fs, be, name, name+ext)
		if err != nil {
			return nil, err
		}
		return []Texture{t}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEmptyAtlas, name)
}

// LoadImage decodes file and uploads it as a full texture called name.
func LoadImage(fs vfs.Filesystem, be backend.Backend, name, file string) (Texture, error) {
	s, err := fs.Open(file)
	if err != nil {
		return Texture{}, fmt.Errorf("texture: open %s: %w", file, err)
	}
	defer s.Close()
	img, _, err := Decode(s)
	if err != nil {
		return Texture{}, fmt.Errorf("texture: %s: %w", file, err)
	}
	return Upload(be, name, img)
}

func loadManifest(fs vfs.Filesystem, be backend.Backend, name, manifestName string) ([]Texture, error) {
	data, err := vfs.ReadAll(fs, manifestName)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestName, err)
	}
	if len(m.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", ErrEmptyAtlas, manifestName)
	}
	imageFile := m.Image
	if imageFile == "" {
		imageFile = name + ".png"
	} else if dir := path.Dir(name); dir != "." {
		imageFile = path.Join(dir, imageFile)
	}

	full, err := LoadImage(fs, be, name, imageFile)
	if err != nil {
		return nil, err
	}

	textures := make([]Texture, 0, len(m.Entries)+1)
	named := false
	for _, e := range m.Entries {
		if e.Name == "" || e.W <= 0 || e.H <= 0 {
			continue
		}
		named = named || e.Name == name
		textures = append(textures, Texture{
			Name:   e.Name,
			Handle: full.Handle,
			UV:     geom.SubRect(e.X, e.Y, e.W, e.H, full.Width, full.Height),
			Width:  e.W,
			Height: e.H,
		})
	}
	if len(textures) == 0 {
		be.DestroyTexture(full.Handle)
		return nil, fmt.Errorf("%w: %s has no valid entries", ErrEmptyAtlas, manifestName)
	}
	if !named {
		textures = append(textures, full)
	}
	return textures, nil
}
