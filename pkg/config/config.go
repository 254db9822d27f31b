// Package config loads the settings shared by the chtab commands
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/scottcagno/hashtable/pkg/hash/golden"
	"github.com/scottcagno/hashtable/pkg/hashmap/chained"
	"github.com/scottcagno/hashtable/pkg/logger"
	"github.com/scottcagno/hashtable/pkg/wordcount"
	"gopkg.in/yaml.v3"
)

const (
	defaultInitialCapacity = 4
	defaultWordCapacity    = wordcount.DefaultTableSize
	defaultLogLevel        = "info"
	defaultWordKey         = "sum"

	maxTokenLenAllowed = 1 << 20
)

// Config holds the settings for a chtab run
type Config struct {
	InitialCapacity int     `yaml:"initial_capacity"` // buckets for int and char tables
	WordCapacity    int     `yaml:"word_capacity"`    // buckets for the word table
	MaxLoadFactor   float64 `yaml:"max_load_factor"`
	MaxCapacity     int     `yaml:"max_capacity"`
	MaxTokenLen     int     `yaml:"max_token_len"`
	WordKey         string  `yaml:"word_key"` // sum or xxhash
	LogLevel        string  `yaml:"log_level"`
	RedactLogs      bool    `yaml:"redact_logs"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		InitialCapacity: defaultInitialCapacity,
		WordCapacity:    defaultWordCapacity,
		MaxLoadFactor:   chained.DefaultLoadFactor,
		MaxCapacity:     chained.DefaultMaxCapacity,
		MaxTokenLen:     wordcount.DefaultMaxTokenLen,
		WordKey:         defaultWordKey,
		LogLevel:        defaultLogLevel,
	}
}

// Parse decodes YAML on top of the defaults. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	conf := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "config: decoding")
	}
	if err := checkConfig(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	return Parse(data)
}

// checkConfig fills in missing values and rejects the ones that cannot
// be repaired
func checkConfig(conf *Config) error {
	if conf.InitialCapacity <= 0 {
		conf.InitialCapacity = defaultInitialCapacity
	}
	if conf.WordCapacity <= 0 {
		conf.WordCapacity = defaultWordCapacity
	}
	if conf.MaxLoadFactor <= 0 {
		conf.MaxLoadFactor = chained.DefaultLoadFactor
	}
	if conf.MaxCapacity <= 0 {
		conf.MaxCapacity = chained.DefaultMaxCapacity
	}
	if conf.MaxTokenLen <= 0 {
		conf.MaxTokenLen = wordcount.DefaultMaxTokenLen
	}
	if conf.MaxTokenLen > maxTokenLenAllowed {
		conf.MaxTokenLen = maxTokenLenAllowed
	}
	if conf.WordKey == "" {
		conf.WordKey = defaultWordKey
	}
	if _, ok := golden.KeyFuncByName(conf.WordKey); !ok {
		return errors.Newf("config: unknown word_key %q", conf.WordKey)
	}
	if conf.LogLevel == "" {
		conf.LogLevel = defaultLogLevel
	}
	if _, err := logger.ParseLevel(conf.LogLevel); err != nil {
		return errors.Wrap(err, "config")
	}
	if conf.InitialCapacity > conf.MaxCapacity || conf.WordCapacity > conf.MaxCapacity {
		return errors.Newf("config: initial capacity exceeds max_capacity %d", conf.MaxCapacity)
	}
	return nil
}

// Validate runs the same checks Parse does, for configs built in code
// or modified by flags
func (conf *Config) Validate() error {
	return checkConfig(conf)
}

// NewLogger builds the logger described by the config
func (conf *Config) NewLogger(w io.Writer) (*logger.Logger, error) {
	lvl, err := logger.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	l := logger.NewLogger(w, lvl)
	l.SetRedact(conf.RedactLogs)
	return l, nil
}

// TableConfig returns the chained.Config for tables built from this config
func (conf *Config) TableConfig(log *logger.Logger) *chained.Config {
	return &chained.Config{
		MaxLoadFactor: conf.MaxLoadFactor,
		MaxCapacity:   conf.MaxCapacity,
		Logger:        log,
	}
}

// CounterConfig returns the wordcount.Config for the word pipeline
func (conf *Config) CounterConfig(log *logger.Logger) *wordcount.Config {
	key, _ := golden.KeyFuncByName(conf.WordKey)
	return &wordcount.Config{
		TableSize:   conf.WordCapacity,
		Key:         key,
		MaxTokenLen: conf.MaxTokenLen,
		Table:       conf.TableConfig(log),
		Logger:      log,
	}
}

func (conf *Config) String() string {
	out, err := yaml.Marshal(conf)
	if err != nil {
		return err.Error()
	}
	return string(out)
}
