package wordcount

import (
	"github.com/cockroachdb/errors"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
)

// ErrTokenTooLong is returned when a token exceeds the tokenizer's limit.
// It also matches elements.ErrMalformedInput under errors.Is.
var ErrTokenTooLong = errors.Mark(errors.New("wordcount: token too long"), elements.ErrMalformedInput)
