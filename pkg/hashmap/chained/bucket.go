package chained

// slot is a node in a bucket chain and owns exactly one element
type slot[E any] struct {
	elem E
	next *slot[E]
}

// bucket is a single chain head in the table. Its chain is kept in
// non-decreasing compare order.
type bucket[E any] struct {
	head *slot[E]
}

// link places s in the chain after every element that compares less
// than or equal to it, so equal elements keep their insertion order
func (b *bucket[E]) link(s *slot[E], cmp func(a, b E) int) {
	if b.head == nil || cmp(b.head.elem, s.elem) > 0 {
		s.next = b.head
		b.head = s
		return
	}
	prev := b.head
	for prev.next != nil && cmp(prev.next.elem, s.elem) <= 0 {
		prev = prev.next
	}
	s.next = prev.next
	prev.next = s
}

// search returns the first slot equal to key, or nil. The chain is
// sorted so the scan stops as soon as it passes where key would sit.
func (b *bucket[E]) search(key E, cmp func(a, b E) int) *slot[E] {
	for current := b.head; current != nil; current = current.next {
		c := cmp(current.elem, key)
		if c == 0 {
			return current
		}
		if c > 0 {
			break
		}
	}
	return nil
}

// unlink detaches and returns the first slot equal to key, or nil if
// there is none. An empty chain is simply a miss.
func (b *bucket[E]) unlink(key E, cmp func(a, b E) int) *slot[E] {
	if b.head == nil {
		return nil
	}
	if cmp(b.head.elem, key) == 0 {
		s := b.head
		b.head = s.next
		s.next = nil
		return s
	}
	previous := b.head
	for previous.next != nil {
		c := cmp(previous.next.elem, key)
		if c == 0 {
			s := previous.next
			previous.next = s.next
			s.next = nil
			return s
		}
		if c > 0 {
			break
		}
		previous = previous.next
	}
	return nil
}

// scan calls fn for each slot in chain order until fn returns false
func (b *bucket[E]) scan(fn func(s *slot[E]) bool) {
	for current := b.head; current != nil; {
		// fn may relink current, so remember the successor first
		next := current.next
		if !fn(current) {
			return
		}
		current = next
	}
}

func (b *bucket[E]) length() int {
	var n int
	for current := b.head; current != nil; current = current.next {
		n++
	}
	return n
}
