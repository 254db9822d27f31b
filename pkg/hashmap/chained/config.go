package chained

import (
	"github.com/scottcagno/hashtable/pkg/logger"
)

const (
	DefaultLoadFactor  = 1.0 // one element per bucket on average
	DefaultMaxCapacity = 1 << 24

	minLoadFactor = 0.25
	maxLoadFactor = 16.0
)

// Config holds the tunables of a Table. A nil Config, or any zero
// field, selects the default.
type Config struct {
	MaxLoadFactor float64        // grow once len/cap would exceed this
	MaxCapacity   int            // bucket count ceiling, growing past it is an allocation failure
	Logger        *logger.Logger // receives grow events at debug level
}

// checkConfig fills in defaults and clamps out of range values
func checkConfig(conf *Config) *Config {
	c := &Config{}
	if conf != nil {
		*c = *conf
	}
	if c.MaxLoadFactor <= 0 {
		c.MaxLoadFactor = DefaultLoadFactor
	}
	if c.MaxLoadFactor < minLoadFactor {
		c.MaxLoadFactor = minLoadFactor
	}
	if c.MaxLoadFactor > maxLoadFactor {
		c.MaxLoadFactor = maxLoadFactor
	}
	if c.MaxCapacity <= 0 {
		c.MaxCapacity = DefaultMaxCapacity
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
	return c
}
