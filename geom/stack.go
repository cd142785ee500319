package geom

// Mat44Stack is a transform stack with an always present top.
// The zero value is not usable; create stacks with NewMat44Stack.
type Mat44Stack struct {
	top   Mat44
	stack []Mat44
}

// NewMat44Stack returns a stack whose top is the identity.
func NewMat44Stack() *Mat44Stack {
	return &Mat44Stack{top: Ident44()}
}

// Top returns the effective transform.
func (s *Mat44Stack) Top() Mat44 { return s.top }

// Depth returns the number of saved transforms below the top.
func (s *Mat44Stack) Depth() int { return len(s.stack) }

// Push saves the current top and replaces it with m.
func (s *Mat44Stack) Push(m Mat44) {
	s.stack = append(s.stack, s.top)
	s.top = m
}

// PushMultiply saves the current top and replaces it with top * m.
func (s *Mat44Stack) PushMultiply(m Mat44) {
	s.stack = append(s.stack, s.top)
	s.top = s.top.Mul(m)
}

// Pop restores the previously saved top.
// Popping without a matching push is a programming error and panics.
func (s *Mat44Stack) Pop() {
	n := len(s.stack)
	if n == 0 {
		panic("geom: pop from empty Mat44Stack")
	}
	s.top = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

// Reset drops all saved transforms and sets the top to identity.
func (s *Mat44Stack) Reset() {
	s.stack = s.stack[:0]
	s.top = Ident44()
}

// LayerStacks holds one Mat44Stack per layer id, created on first use.
type LayerStacks struct {
	stacks map[uint8]*Mat44Stack
}

// NewLayerStacks returns an empty set of layer stacks.
func NewLayerStacks() *LayerStacks {
	return &LayerStacks{stacks: make(map[uint8]*Mat44Stack)}
}

// Get returns the stack of layer, creating it if needed.
func (l *LayerStacks) Get(layer uint8) *Mat44Stack {
	s, ok := l.stacks[layer]
	if !ok {
		s = NewMat44Stack()
		l.stacks[layer] = s
	}
	return s
}

// Top returns the effective transform of layer.
// Layers that were never touched report the identity.
func (l *LayerStacks) Top(layer uint8) Mat44 {
	if s, ok := l.stacks[layer]; ok {
		return s.Top()
	}
	return Ident44()
}

// Reset returns every stack to identity-only.
func (l *LayerStacks) Reset() {
	for _, s := range l.stacks {
		s.Reset()
	}
}
