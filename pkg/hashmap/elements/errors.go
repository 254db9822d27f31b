package elements

import "github.com/cockroachdb/errors"

// ErrMalformedInput is returned when a token cannot be turned into an element
var ErrMalformedInput = errors.New("elements: malformed input")
