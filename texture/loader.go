package texture

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gogpu/quad/backend"
	"github.com/gogpu/quad/vfs"
)

// Loader defaults.
const (
	DefaultBudget    = 1000
	DefaultQueueSize = 1024
	DefaultMaxDepth  = 16
)

// Command asks the loader to resolve Name. Depth counts the references
// followed so far; Alias is the name originally requested, which is
// registered as an alias of whatever the chain ends in.
type Command struct {
	Depth int
	Name  string
	Alias string
}

// Resolver is the texture registry the loader fills.
type Resolver interface {
	// Has reports whether a texture with the name is registered.
	Has(name string) bool
	// Alias registers alias for the registered texture target.
	Alias(target, alias string) bool
	// Register adds freshly loaded textures.
	Register(textures ...Texture)
}

// DrainStats summarizes one Drain.
type DrainStats struct {
	Processed  int // commands taken from the queue
	Registered int // textures and aliases registered
	Requeued   int // references followed
	Dropped    int // chains abandoned or loads that failed
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithQueueSize sets the command queue capacity.
func WithQueueSize(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithMaxDepth sets the number of references a chain may follow.
func WithMaxDepth(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxDepth = n
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader resolves texture names from a command queue.
//
// Request may be called from any goroutine. Drain runs on the render
// goroutine because it creates backend textures.
type Loader struct {
	log      *slog.Logger
	fs       vfs.Filesystem
	be       backend.Backend
	res      Resolver
	queue    chan Command
	maxDepth int

	queueSize int

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewLoader creates a loader reading from fs and uploading through be.
func NewLoader(fs vfs.Filesystem, be backend.Backend, res Resolver, opts ...LoaderOption) *Loader {
	l := &Loader{
		log:       slog.New(discardHandler{}),
		fs:        fs,
		be:        be,
		res:       res,
		maxDepth:  DefaultMaxDepth,
		queueSize: DefaultQueueSize,
		pending:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan Command, l.queueSize)
	return l
}

// SetFilesystem replaces the filesystem used by later commands.
func (l *Loader) SetFilesystem(fs vfs.Filesystem) { l.fs = fs }

// Request enqueues a load of name without blocking. A name already waiting
// is not queued twice. It returns false when the queue is full; the next
// draw that misses the texture asks again.
func (l *Loader) Request(name string) bool {
	l.mu.Lock()
	if _, ok := l.pending[name]; ok {
		l.mu.Unlock()
		return true
	}
	l.pending[name] = struct{}{}
	l.mu.Unlock()

	if !l.enqueue(Command{Name: name, Alias: name}) {
		l.done(name)
		return false
	}
	return true
}

func (l *Loader) enqueue(cmd Command) bool {
	select {
	case l.queue <- cmd:
		return true
	default:
		l.log.Warn("texture: load queue full, command dropped", "name", cmd.Name, "depth", cmd.Depth)
		return false
	}
}

func (l *Loader) done(root string) {
	l.mu.Lock()
	delete(l.pending, root)
	l.mu.Unlock()
}

// Pending returns the number of requested names not yet resolved.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Queued returns the number of commands waiting in the queue.
func (l *Loader) Queued() int { return len(l.queue) }

// Drain takes up to budget commands off the queue and processes them.
// Commands produced while processing, such as followed references, wait
// for the next Drain.
func (l *Loader) Drain(budget int) DrainStats {
	var stats DrainStats
	if budget <= 0 {
		budget = DefaultBudget
	}
	batch := make([]Command, 0, min(budget, len(l.queue)))
take:
	for len(batch) < budget {
		select {
		case cmd := <-l.queue:
			batch = append(batch, cmd)
		default:
			break take
		}
	}
	for _, cmd := range batch {
		stats.Processed++
		l.process(cmd, &stats)
	}
	if stats.Processed > 0 {
		l.log.Debug("texture: drained load queue",
			"processed", stats.Processed,
			"registered", stats.Registered,
			"requeued", stats.Requeued,
			"dropped", stats.Dropped,
			"queued", len(l.queue))
	}
	return stats
}

func (l *Loader) process(cmd Command, stats *DrainStats) {
	root := cmd.Alias
	if root == "" {
		root = cmd.Name
	}
	if cmd.Depth >= l.maxDepth {
		err := &ReferenceError{Name: cmd.Name, Root: root, Depth: cmd.Depth}
		l.log.Warn("texture: reference chain dropped", "err", err)
		stats.Dropped++
		l.done(root)
		return
	}

	if l.res.Has(cmd.Name) {
		if root != cmd.Name && !l.res.Has(root) && l.res.Alias(cmd.Name, root) {
			stats.Registered++
		}
		l.done(root)
		return
	}

	target, isRef, err := ResolveReference(l.fs, cmd.Name)
	if isRef {
		if err != nil {
			l.log.Warn("texture: broken reference", "name", cmd.Name, "err", err)
			stats.Dropped++
			l.done(root)
			return
		}
		l.log.Debug("texture: following reference", "name", cmd.Name, "target", target, "depth", cmd.Depth)
		if !l.enqueue(Command{Depth: cmd.Depth + 1, Name: target, Alias: root}) {
			stats.Dropped++
			l.done(root)
			return
		}
		stats.Requeued++
		return
	}

	textures, err := LoadAll(l.fs, l.be, cmd.Name)
	if err != nil {
		l.log.Warn("texture: tried to load atlas, but got no textures", "name", cmd.Name, "err", err)
		stats.Dropped++
		l.done(root)
		return
	}
	l.res.Register(textures...)
	stats.Registered += len(textures)
	l.log.Debug("texture: loaded", "name", cmd.Name, "textures", len(textures))

	if root != cmd.Name && !l.res.Has(root) {
		if l.res.Alias(cmd.Name, root) {
			stats.Registered++
		} else {
			l.log.Warn("texture: alias target not loaded", "alias", root, "target", cmd.Name)
		}
	}
	l.done(root)
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
