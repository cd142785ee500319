package texture

import (
	"fmt"
	"image/color"
	"sync"
	"testing"

	"github.com/gogpu/quad/backend/null"
	"github.com/gogpu/quad/vfs"
)

// mapResolver is a minimal Resolver backed by a map.
type mapResolver struct {
	mu       sync.Mutex
	textures map[string]Texture
}

func newMapResolver() *mapResolver {
	return &mapResolver{textures: make(map[string]Texture)}
}

func (r *mapResolver) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.textures[name]
	return ok
}

func (r *mapResolver) Alias(target, alias string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.textures[target]
	if !ok {
		return false
	}
	r.textures[alias] = t.WithName(alias)
	return true
}

func (r *mapResolver) Register(textures ...Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range textures {
		r.textures[t.Name] = t
	}
}

func TestLoaderPlainImage(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.Add("ship.png", pngBytes(t, 4, 4, color.White))
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)

	if !l.Request("ship") {
		t.Fatal("Request() = false")
	}
	stats := l.Drain(DefaultBudget)
	if stats.Processed != 1 || stats.Registered != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if !res.Has("ship") {
		t.Error("ship not registered")
	}
	if l.Pending() != 0 || l.Queued() != 0 {
		t.Errorf("Pending=%d Queued=%d, want 0", l.Pending(), l.Queued())
	}
}

func TestLoaderAliasChain(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.AddString("a.omtr", "b\n")
	fs.AddString("b.omtr", "c\n")
	fs.AddString("c.omtr", "texture\n")
	fs.Add("texture.png", pngBytes(t, 2, 2, color.White))
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)

	l.Request("a")
	for i := 1; i <= 3; i++ {
		l.Drain(DefaultBudget)
		if res.Has("a") {
			t.Fatalf("a registered after %d drains, references need one drain each", i)
		}
	}
	l.Drain(DefaultBudget)
	if !res.Has("a") || !res.Has("texture") {
		t.Fatalf("after 4 drains: a=%v texture=%v", res.Has("a"), res.Has("texture"))
	}
	if res.textures["a"].Handle != res.textures["texture"].Handle {
		t.Error("alias does not share the target's handle")
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d", l.Pending())
	}
}

func TestLoaderChainTooDeep(t *testing.T) {
	const links = 17
	fs := vfs.NewMemory("assets", false)
	for i := 0; i < links; i++ {
		fs.AddString(fmt.Sprintf("l%d.omtr", i), fmt.Sprintf("l%d", i+1))
	}
	fs.Add(fmt.Sprintf("l%d.png", links), pngBytes(t, 1, 1, color.White))
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)

	l.Request("l0")
	var dropped int
	for i := 0; i < links+5; i++ {
		dropped += l.Drain(DefaultBudget).Dropped
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(res.textures) != 0 {
		t.Errorf("registered %d textures, want none", len(res.textures))
	}
	if l.Pending() != 0 {
		t.Errorf("Pending() = %d after drop", l.Pending())
	}
}

func TestLoaderCycle(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.AddString("ping.omtr", "pong")
	fs.AddString("pong.omtr", "ping")
	l := NewLoader(fs, null.New(), newMapResolver(), WithMaxDepth(4))

	l.Request("ping")
	for i := 0; i < 10; i++ {
		l.Drain(DefaultBudget)
	}
	if l.Queued() != 0 || l.Pending() != 0 {
		t.Errorf("cycle still queued: Queued=%d Pending=%d", l.Queued(), l.Pending())
	}
}

func TestLoaderExistingTargetAliased(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.AddString("hero.omtr", "ship")
	res := newMapResolver()
	res.Register(Texture{Name: "ship", Handle: 7})
	l := NewLoader(fs, null.New(), res)

	l.Request("hero")
	l.Drain(DefaultBudget)
	stats := l.Drain(DefaultBudget)
	if stats.Registered != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if got := res.textures["hero"]; got.Handle != 7 || got.Name != "hero" {
		t.Errorf("hero = %+v", got)
	}
}

func TestLoaderRequestDedup(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.Add("ship.png", pngBytes(t, 1, 1, color.White))
	be := null.New()
	l := NewLoader(fs, be, newMapResolver())

	for i := 0; i < 5; i++ {
		l.Request("ship")
	}
	if l.Queued() != 1 {
		t.Errorf("Queued() = %d, want 1", l.Queued())
	}
	l.Drain(DefaultBudget)
	if len(be.Textures) != 1 {
		t.Errorf("uploads = %d, want 1", len(be.Textures))
	}
}

func TestLoaderQueueFull(t *testing.T) {
	l := NewLoader(vfs.NewMemory("assets", false), null.New(), newMapResolver(), WithQueueSize(2))
	if !l.Request("a") || !l.Request("b") {
		t.Fatal("Request() failed below capacity")
	}
	if l.Request("c") {
		t.Error("Request() = true on a full queue")
	}
	if l.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", l.Pending())
	}
}

func TestLoaderBudget(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("t%d", i)
		fs.Add(name+".png", pngBytes(t, 1, 1, color.White))
		l.Request(name)
	}

	if got := l.Drain(3).Processed; got != 3 {
		t.Errorf("Drain(3).Processed = %d", got)
	}
	if l.Queued() != 7 {
		t.Errorf("Queued() = %d, want 7", l.Queued())
	}
	l.Drain(DefaultBudget)
	if len(res.textures) != 10 {
		t.Errorf("registered = %d, want 10", len(res.textures))
	}
}

func TestLoaderMissingThenAdded(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)

	l.Request("late")
	if stats := l.Drain(DefaultBudget); stats.Dropped != 1 {
		t.Errorf("stats = %+v, want one dropped load", stats)
	}

	fs.Add("late.png", pngBytes(t, 1, 1, color.White))
	l.Request("late")
	l.Drain(DefaultBudget)
	if !res.Has("late") {
		t.Error("retry after the file appeared did not load it")
	}
}

func TestLoaderConcurrentRequests(t *testing.T) {
	fs := vfs.NewMemory("assets", false)
	fs.Add("shared.png", pngBytes(t, 1, 1, color.White))
	res := newMapResolver()
	l := NewLoader(fs, null.New(), res)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Request("shared")
		}()
	}
	wg.Wait()
	l.Drain(DefaultBudget)
	if !res.Has("shared") {
		t.Error("shared not registered")
	}
}
