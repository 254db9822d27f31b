package chained

import "github.com/cockroachdb/errors"

var (
	ErrAllocation      = errors.New("chained: bucket storage could not be allocated")
	ErrNotFound        = errors.New("chained: element not found")
	ErrClosed          = errors.New("chained: table is closed")
	ErrInvalidCapacity = errors.New("chained: capacity must be positive")
	ErrBucketRange     = errors.New("chained: bucket index out of range")
	ErrNoMutator       = errors.New("chained: element ops do not support mutation")
)
