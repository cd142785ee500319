package quad

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/quad/color"
	"github.com/gogpu/quad/effect"
	"github.com/gogpu/quad/texture"
	"github.com/gogpu/quad/vfs"
)

// Config is the YAML description of a renderer and the resources loaded
// after Setup.
//
//	width: 640
//	height: 480
//	backend: software
//	clear_color: "#102030"
//	screenshot:
//	  creator: quaddemo
//	effects:
//	  - name: additive
//	    vertex: additive.wgsl
//	    blend_dst: one
//	fonts:
//	  - id: 1
//	    name: pixel
//	textures: [ships, background]
type Config struct {
	Width         int              `yaml:"width"`
	Height        int              `yaml:"height"`
	Backend       string           `yaml:"backend,omitempty"`
	ClearColor    string           `yaml:"clear_color,omitempty"`
	LoadBudget    int              `yaml:"load_budget,omitempty"`
	LoadQueueSize int              `yaml:"load_queue_size,omitempty"`
	MaxAliasDepth int              `yaml:"max_alias_depth,omitempty"`
	StatsInterval *uint64          `yaml:"stats_interval,omitempty"`
	Screenshot    ScreenshotConfig `yaml:"screenshot,omitempty"`
	Effects       []EffectConfig   `yaml:"effects,omitempty"`
	Fonts         []FontConfig     `yaml:"fonts,omitempty"`
	Textures      []string         `yaml:"textures,omitempty"`
}

// ScreenshotConfig holds screenshot defaults.
type ScreenshotConfig struct {
	Creator string `yaml:"creator,omitempty"`
	Name    string `yaml:"name,omitempty"`
	Delay   int    `yaml:"delay,omitempty"`
	Frames  int    `yaml:"frames,omitempty"`
}

// EffectConfig declares an effect compiled from WGSL. Unset flags and
// factors keep the effect defaults.
type EffectConfig struct {
	Name      string              `yaml:"name"`
	Vertex    string              `yaml:"vertex"`
	Fragment  string              `yaml:"fragment,omitempty"`
	CullFace  *bool               `yaml:"cull_face,omitempty"`
	DepthTest *bool               `yaml:"depth_test,omitempty"`
	BlendSrc  *effect.BlendFactor `yaml:"blend_src,omitempty"`
	BlendDst  *effect.BlendFactor `yaml:"blend_dst,omitempty"`
}

// FontConfig loads font Name as font ID.
type FontConfig struct {
	ID   uint8  `yaml:"id"`
	Name string `yaml:"name"`
}

// DefaultConfig returns the configuration NewRenderer uses without options.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		LoadBudget:    texture.DefaultBudget,
		LoadQueueSize: texture.DefaultQueueSize,
		MaxAliasDepth: texture.DefaultMaxDepth,
	}
}

// ParseConfig decodes a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("quad: parse config: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("quad: config: bad viewport %dx%d", c.Width, c.Height)
	}
	for _, e := range c.Effects {
		if e.Name == "" || e.Vertex == "" {
			return nil, fmt.Errorf("quad: config: effect needs a name and a vertex source")
		}
	}
	return &c, nil
}

// LoadConfig reads and parses the configuration name from fs.
func LoadConfig(fs vfs.Filesystem, name string) (*Config, error) {
	data, err := vfs.ReadAll(fs, name)
	if err != nil {
		return nil, fmt.Errorf("quad: %w", err)
	}
	return ParseConfig(data)
}

// Options turns the configuration into renderer options.
func (c *Config) Options() []Option {
	opts := []Option{
		WithViewport(c.Width, c.Height),
		WithLoadBudget(c.LoadBudget),
		WithLoadQueueSize(c.LoadQueueSize),
		WithMaxAliasDepth(c.MaxAliasDepth),
	}
	if c.Backend != "" {
		opts = append(opts, WithBackendName(c.Backend))
	}
	if c.ClearColor != "" {
		opts = append(opts, WithClearColor(color.Hex(c.ClearColor)))
	}
	if c.StatsInterval != nil {
		opts = append(opts, WithStatsInterval(*c.StatsInterval))
	}
	if c.Screenshot.Creator != "" {
		opts = append(opts, WithScreenshotCreator(c.Screenshot.Creator))
	}
	return opts
}

// Apply loads the configured effects, fonts and textures into r, which
// must be set up. It keeps going after a failure and returns every error
// joined.
func (c *Config) Apply(r *Renderer) error {
	if !r.ready {
		return ErrNotSetup
	}
	var errs []error
	for _, ec := range c.Effects {
		_, err := r.LoadEffect(ec.Name, ec.Vertex, ec.Fragment, ec.configure)
		errs = append(errs, err)
	}
	for _, fc := range c.Fonts {
		errs = append(errs, r.LoadFont(fc.ID, fc.Name))
	}
	for _, name := range c.Textures {
		errs = append(errs, r.LoadTexture(name))
	}
	return errors.Join(errs...)
}

func (ec EffectConfig) configure(e effect.Effect) effect.Effect {
	if ec.CullFace != nil {
		e = e.WithCullFace(*ec.CullFace)
	}
	if ec.DepthTest != nil {
		e = e.WithDepthTest(*ec.DepthTest)
	}
	src, dst := e.BlendSrc, e.BlendDst
	if ec.BlendSrc != nil {
		src = *ec.BlendSrc
	}
	if ec.BlendDst != nil {
		dst = *ec.BlendDst
	}
	return e.WithBlend(src, dst)
}
