package elements

import (
	"cmp"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/scottcagno/hashtable/pkg/hash/golden"
)

// CharOps is the chained.Ops implementation for single byte characters
type CharOps struct{}

func (CharOps) Hash(e byte, size int) int {
	return golden.Index(golden.Char(e), size)
}

func (CharOps) Compare(a, b byte) int {
	return cmp.Compare(a, b)
}

func (CharOps) Create(seed string) (byte, error) {
	if len(seed) != 1 {
		return 0, errors.Wrapf(ErrMalformedInput, "not a single character: %q", seed)
	}
	return seed[0], nil
}

func (CharOps) Destroy(byte) {}

// Dump writes the raw character with no separator
func (CharOps) Dump(w io.Writer, e byte) error {
	_, err := w.Write([]byte{e})
	return err
}
