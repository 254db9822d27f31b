// Package elements provides the element types a chained.Table can hold:
// plain integers, single characters, and counted words.
package elements

import (
	"cmp"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/scottcagno/hashtable/pkg/hash/golden"
)

// IntOps is the chained.Ops implementation for int elements
type IntOps struct{}

func (IntOps) Hash(e int, size int) int {
	return golden.Index(e, size)
}

func (IntOps) Compare(a, b int) int {
	return cmp.Compare(a, b)
}

func (IntOps) Create(seed string) (int, error) {
	n, err := strconv.Atoi(seed)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedInput, "not an integer: %q", seed)
	}
	return n, nil
}

// Destroy is a no-op, ints own nothing
func (IntOps) Destroy(int) {}

func (IntOps) Dump(w io.Writer, e int) error {
	_, err := fmt.Fprintf(w, "%d\n", e)
	return err
}
