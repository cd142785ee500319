package cache

// lruNode is a node in the recency list. It stores its key so the oldest
// entry can be dropped from the map.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList is a doubly-linked list ordered by use, most recent at the head.
// It is not thread-safe.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
}

// PushFront adds key as the most recently used node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	node := &lruNode[K]{key: key}
	l.linkFront(node)
	return node
}

// MoveToFront marks node as the most recently used.
func (l *lruList[K]) MoveToFront(node *lruNode[K]) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

// Remove unlinks node.
func (l *lruList[K]) Remove(node *lruNode[K]) {
	if node != nil {
		l.unlink(node)
	}
}

// RemoveOldest unlinks the least recently used node and returns its key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList[K]) linkFront(node *lruNode[K]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
