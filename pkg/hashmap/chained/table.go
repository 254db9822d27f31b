// Package chained implements a generic hash table that resolves
// collisions by separate chaining. Each bucket holds a singly linked
// chain kept in compare order, and the bucket array doubles whenever the
// load factor would pass its limit.
package chained

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Table is a resizable hash table using separate chaining. It is
// parameterized over the element type E and learns how to hash,
// order, dump and free elements from the Ops it was created with.
// A Table is not safe for concurrent use.
type Table[E any] struct {
	ops     Ops[E]
	mut     Mutator[E] // nil when ops cannot mutate
	conf    *Config
	keys    int
	grows   int
	buckets []bucket[E]
	closed  bool
}

// New returns a Table with size empty buckets
func New[E any](size int, ops Ops[E], conf *Config) (*Table[E], error) {
	if ops == nil {
		return nil, errors.New("chained: nil ops")
	}
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", size)
	}
	conf = checkConfig(conf)
	if size > conf.MaxCapacity {
		return nil, errors.Wrapf(ErrAllocation, "%d buckets exceeds limit of %d", size, conf.MaxCapacity)
	}
	t := &Table[E]{
		ops:     ops,
		conf:    conf,
		buckets: make([]bucket[E], size),
	}
	if mut, ok := ops.(Mutator[E]); ok {
		t.mut = mut
	}
	return t, nil
}

// index returns the bucket of e in a table with size buckets
func (t *Table[E]) index(e E, size int) int {
	i := t.ops.Hash(e, size)
	if i < 0 || i >= size {
		panic(errors.AssertionFailedf("chained: hash returned %d for %d buckets", i, size))
	}
	return i
}

// grow doubles the bucket count and relinks every slot under the new
// size. The new array is only installed once every slot has moved, and
// a failed allocation leaves the table exactly as it was.
func (t *Table[E]) grow() error {
	oldSize := len(t.buckets)
	newSize := oldSize * 2
	if newSize <= oldSize || newSize > t.conf.MaxCapacity {
		return errors.Wrapf(ErrAllocation, "cannot grow from %d to %d buckets (limit %d)",
			oldSize, newSize, t.conf.MaxCapacity)
	}
	buckets := make([]bucket[E], newSize)
	for i := range t.buckets {
		t.buckets[i].scan(func(s *slot[E]) bool {
			s.next = nil
			buckets[t.index(s.elem, newSize)].link(s, t.ops.Compare)
			return true
		})
		t.buckets[i].head = nil
	}
	t.buckets = buckets
	t.grows++
	t.conf.Logger.Debugf("chained: grew table from %d to %d buckets holding %d elements",
		redact.Safe(oldSize), redact.Safe(newSize), redact.Safe(t.keys))
	return nil
}

// Insert links e into its bucket. Equal elements are not merged; callers
// that want a single entry per key should Lookup first. If the insert
// would push the load factor past the limit the table grows first; when
// that growth fails the error is returned, e is not linked and remains
// owned by the caller.
func (t *Table[E]) Insert(e E) error {
	if t.closed {
		return ErrClosed
	}
	if float64(t.keys+1) > t.conf.MaxLoadFactor*float64(len(t.buckets)) {
		if err := t.grow(); err != nil {
			return errors.Wrap(err, "insert")
		}
	}
	i := t.index(e, len(t.buckets))
	t.buckets[i].link(&slot[E]{elem: e}, t.ops.Compare)
	t.keys++
	return nil
}

// Lookup returns a reference to the first element equal to key. The
// reference stays valid until the element is removed or the table is
// closed; growing the table does not move elements.
func (t *Table[E]) Lookup(key E) (*E, bool) {
	if t.closed {
		return nil, false
	}
	s := t.buckets[t.index(key, len(t.buckets))].search(key, t.ops.Compare)
	if s == nil {
		return nil, false
	}
	return &s.elem, true
}

// Remove unlinks the first element equal to key and destroys it. It
// returns ErrNotFound, leaving the table untouched, when there is no
// such element.
func (t *Table[E]) Remove(key E) error {
	if t.closed {
		return ErrClosed
	}
	s := t.buckets[t.index(key, len(t.buckets))].unlink(key, t.ops.Compare)
	if s == nil {
		return ErrNotFound
	}
	t.ops.Destroy(s.elem)
	t.keys--
	return nil
}

// Mutate applies the ops' in place update to the first element equal to key
func (t *Table[E]) Mutate(key E) error {
	if t.closed {
		return ErrClosed
	}
	if t.mut == nil {
		return ErrNoMutator
	}
	e, ok := t.Lookup(key)
	if !ok {
		return ErrNotFound
	}
	t.mut.Mutate(e)
	return nil
}

// DumpBucket writes every element of bucket index to w in chain order
func (t *Table[E]) DumpBucket(w io.Writer, index int) error {
	if t.closed {
		return ErrClosed
	}
	if index < 0 || index >= len(t.buckets) {
		return errors.Wrapf(ErrBucketRange, "index %d, %d buckets", index, len(t.buckets))
	}
	var err error
	t.buckets[index].scan(func(s *slot[E]) bool {
		err = t.ops.Dump(w, s.elem)
		return err == nil
	})
	return err
}

// Iterator is called for each element by Range
type Iterator[E any] func(e E) bool

// Range calls it for every element, bucket by bucket and in chain order
// within a bucket, for as long as it returns true. The table must not be
// modified while ranging.
func (t *Table[E]) Range(it Iterator[E]) {
	if t.closed {
		return
	}
	for i := range t.buckets {
		stop := false
		t.buckets[i].scan(func(s *slot[E]) bool {
			if !it(s.elem) {
				stop = true
			}
			return !stop
		})
		if stop {
			return
		}
	}
}

// Len returns the number of elements currently in the table
func (t *Table[E]) Len() int {
	return t.keys
}

// Cap returns the current number of buckets
func (t *Table[E]) Cap() int {
	return len(t.buckets)
}

// PercentFull returns the current load factor of the table
func (t *Table[E]) PercentFull() float64 {
	if len(t.buckets) == 0 {
		return 0
	}
	return float64(t.keys) / float64(len(t.buckets))
}

// Close destroys every remaining element and releases the buckets.
// Every later operation on the table fails with ErrClosed.
func (t *Table[E]) Close() {
	if t.closed {
		return
	}
	for i := range t.buckets {
		t.buckets[i].scan(func(s *slot[E]) bool {
			t.ops.Destroy(s.elem)
			s.next = nil
			return true
		})
		t.buckets[i].head = nil
	}
	t.buckets = nil
	t.keys = 0
	t.closed = true
}
