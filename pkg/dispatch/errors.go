package dispatch

import (
	"github.com/cockroachdb/errors"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
)

// ErrUnexpectedEnd is returned when the input stops before a session is
// complete. It matches elements.ErrMalformedInput.
var ErrUnexpectedEnd = errors.Mark(errors.New("dispatch: unexpected end of input"), elements.ErrMalformedInput)
