package texture

import (
	"fmt"
	"math"
	"regexp"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/vfs"
)

// AnimatedTexture steps through frames whose names come from a printf-like
// template such as "explosion-%04d".
type AnimatedTexture struct {
	template     string
	firstFrame   int
	frames       int
	fps          float32
	current      int
	timePerFrame float32
	timeInFrame  float32
	autoloop     bool
	completed    bool
}

// NewAnimatedTexture returns an animation that never advances until Setup.
func NewAnimatedTexture() *AnimatedTexture {
	return &AnimatedTexture{
		timePerFrame: math.MaxFloat32,
		autoloop:     true,
	}
}

// Setup configures the template, the frame range [first, first+count) and
// the playback rate.
func (a *AnimatedTexture) Setup(template string, first, count int, fps float32) {
	a.template = template
	a.firstFrame = first
	a.frames = count
	a.fps = fps
	a.timePerFrame = math.MaxFloat32
	if fps > 0 {
		a.timePerFrame = 1 / fps
	}
	a.current = first
	a.timeInFrame = 0
	a.completed = false
}

// SetCurrentFrame jumps to frame f, wrapped into the animation's range.
func (a *AnimatedTexture) SetCurrentFrame(f int) {
	if a.frames > 0 {
		f = a.firstFrame + ((f-a.firstFrame)%a.frames+a.frames)%a.frames
	}
	a.current = f
	a.completed = false
}

// CurrentFrame returns the current frame number.
func (a *AnimatedTexture) CurrentFrame() int { return a.current }

// SetAutoloop chooses between looping and stopping after the last frame.
func (a *AnimatedTexture) SetAutoloop(autoloop bool) { a.autoloop = autoloop }

// Completed reports whether a non-looping animation has finished.
func (a *AnimatedTexture) Completed() bool { return a.completed }

// SetCompleted overrides the completed flag.
func (a *AnimatedTexture) SetCompleted(completed bool) { a.completed = completed }

// Update advances the animation by dt seconds.
func (a *AnimatedTexture) Update(dt float64) {
	a.timeInFrame += float32(dt)
	if a.completed || a.frames <= 0 {
		return
	}
	end := a.firstFrame + a.frames
	for a.timeInFrame > a.timePerFrame {
		a.current++
		if a.current >= end {
			if a.autoloop {
				a.current -= a.frames
			} else {
				a.current = end
				a.completed = true
			}
		}
		a.timeInFrame -= a.timePerFrame
		if a.completed {
			break
		}
	}
}

// CurrentName returns the texture name of the current frame.
func (a *AnimatedTexture) CurrentName() string {
	return FillTemplate(a.template, a.current)
}

var templatePattern = regexp.MustCompile(`(.*)%((0*\d+)*)d(.*)`)

// FillTemplate substitutes n into the last %d directive of template.
// Supported directives are %d, %0Nd (zero padded) and %Nd (space padded)
// with N from 1 to 8. Other widths produce a visibly broken name. A
// template without a directive is returned unchanged.
func FillTemplate(template string, n int) string {
	m := templatePattern.FindStringSubmatch(template)
	if m == nil {
		return template
	}
	prefix, format, suffix := m[1], m[2], m[4]
	switch format {
	case "":
		return fmt.Sprintf("%s%d%s", prefix, n, suffix)
	case "01", "02", "03", "04", "05", "06", "07", "08",
		"1", "2", "3", "4", "5", "6", "7", "8":
		return fmt.Sprintf("%s%"+format+"d%s", prefix, n, suffix)
	default:
		return fmt.Sprintf("%sBROKEN_TEMPLATE_%%%sd_%s", prefix, format, suffix)
	}
}

// FrameNames lists template frames starting at 0 for as long as
// `<frame>.png` exists on fs.
func FrameNames(fs vfs.Filesystem, template string) []string {
	var names []string
	for i := 0; ; i++ {
		name := FillTemplate(template, i)
		if !fs.Exists(name + ".png") {
			return names
		}
		names = append(names, name)
		if name == template {
			// No directive: every index yields the same name.
			return names
		}
	}
}

// RegisterAll loads every existing frame of template as a plain image and
// registers it. It returns the number of frames registered.
func RegisterAll(fs vfs.Filesystem, be backend.Backend, res Resolver, template string) (int, error) {
	names := FrameNames(fs, template)
	textures := make([]Texture, 0, len(names))
	for _, name := range names {
		if res.Has(name) {
			continue
		}
		t, err := LoadImage(fs, be, name, name+".png")
		if err != nil {
			res.Register(textures...)
			return len(textures), err
		}
		textures = append(textures, t)
	}
	res.Register(textures...)
	return len(textures), nil
}
