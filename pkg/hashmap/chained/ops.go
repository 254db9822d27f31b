package chained

import "io"

// Ops is the set of element specific operations a Table is built with.
// The table never looks inside an element; everything it needs goes
// through these methods.
type Ops[E any] interface {
	// Hash returns the bucket index of e in a table of size buckets.
	// The result must be in [0, size) and depend only on e and size.
	Hash(e E, size int) int
	// Compare orders elements. It returns a negative number, zero or a
	// positive number when a sorts before, equal to, or after b.
	Compare(a, b E) int
	// Create builds an element from its textual form.
	Create(seed string) (E, error)
	// Destroy releases whatever e owns. It is called exactly once for
	// every element that leaves the table through Remove or Close.
	Destroy(e E)
	// Dump writes a human readable form of e to w.
	Dump(w io.Writer, e E) error
}

// Mutator is implemented by Ops whose elements can be updated in place
type Mutator[E any] interface {
	Mutate(e *E)
}
