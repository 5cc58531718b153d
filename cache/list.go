package cache

// node is an element of a recency list.
type node[K comparable] struct {
	key        K
	prev, next *node[K]
}

// recency is a circular doubly-linked list with a sentinel root.
// root.next is the most recently used key, root.prev the least.
// Not safe for concurrent use.
type recency[K comparable] struct {
	root node[K]
	n    int
}

func (l *recency[K]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.n = 0
}

// Len returns the number of keys in the list.
func (l *recency[K]) Len() int { return l.n }

// PushFront inserts key as the most recently used.
func (l *recency[K]) PushFront(key K) *node[K] {
	if l.root.next == nil {
		l.init()
	}
	e := &node[K]{key: key}
	l.insertAfter(e, &l.root)
	l.n++
	return e
}

// Touch marks e as the most recently used.
func (l *recency[K]) Touch(e *node[K]) {
	if e == nil || l.root.next == e {
		return
	}
	l.unlink(e)
	l.insertAfter(e, &l.root)
}

// Remove drops e from the list.
func (l *recency[K]) Remove(e *node[K]) {
	if e == nil || e.next == nil {
		return
	}
	l.unlink(e)
	e.prev, e.next = nil, nil
	l.n--
}

// PopOldest removes and returns the least recently used key.
func (l *recency[K]) PopOldest() (K, bool) {
	if l.n == 0 {
		var zero K
		return zero, false
	}
	e := l.root.prev
	l.Remove(e)
	return e.key, true
}

func (l *recency[K]) insertAfter(e, at *node[K]) {
	e.prev = at
	e.next = at.next
	at.next.prev = e
	at.next = e
}

func (l *recency[K]) unlink(e *node[K]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}
