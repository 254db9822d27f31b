// Package wordcount counts word frequencies in a text stream using a
// chained.Table of *elements.Word records.
package wordcount

import (
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/scottcagno/hashtable/pkg/hashmap/chained"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
	"github.com/scottcagno/hashtable/pkg/logger"
)

// DefaultTableSize is the initial bucket count of a Counter's table
const DefaultTableSize = 8

// Config holds Counter settings. Zero values select the defaults.
type Config struct {
	TableSize   int
	MaxTokenLen int
	Key         func(text string) int // word key derivation, byte sum when nil
	Table       *chained.Config
	Logger      *logger.Logger
}

// Counter maintains one Word record per distinct token. Each token is
// looked up first; a hit bumps the record's count in place and a miss
// creates and inserts a new record with a count of one.
type Counter struct {
	ops    elements.WordOps
	tbl    *chained.Table[*elements.Word]
	maxLen int
	log    *logger.Logger
}

// NewCounter returns an empty Counter
func NewCounter(conf *Config) (*Counter, error) {
	if conf == nil {
		conf = &Config{}
	}
	size := conf.TableSize
	if size <= 0 {
		size = DefaultTableSize
	}
	log := conf.Logger
	if log == nil {
		log = logger.Discard()
	}
	tconf := &chained.Config{Logger: log}
	if conf.Table != nil {
		*tconf = *conf.Table
		if tconf.Logger == nil {
			tconf.Logger = log
		}
	}
	c := &Counter{
		ops:    elements.WordOps{Key: conf.Key},
		maxLen: conf.MaxTokenLen,
		log:    log,
	}
	tbl, err := chained.New[*elements.Word](size, c.ops, tconf)
	if err != nil {
		return nil, errors.Wrap(err, "wordcount")
	}
	c.tbl = tbl
	return c, nil
}

// Add counts one occurrence of token
func (c *Counter) Add(token string) error {
	if e, ok := c.tbl.Lookup(&elements.Word{Text: token}); ok {
		c.ops.Mutate(e)
		return nil
	}
	w, err := c.ops.Create(token)
	if err != nil {
		return err
	}
	if err := c.tbl.Insert(w); err != nil {
		// never linked, so it is still ours to release
		c.ops.Destroy(w)
		return err
	}
	c.log.Tracef("wordcount: new word %s", token)
	return nil
}

// Feed tokenizes r and counts every token until the stream ends. On
// error the tokens counted so far stay counted.
func (c *Counter) Feed(r io.Reader) error {
	tk := NewTokenizer(r, c.maxLen)
	var n int
	for {
		token, err := tk.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "after %d tokens", n)
		}
		if err := c.Add(token); err != nil {
			return errors.Wrapf(err, "counting token %d", n)
		}
		n++
	}
	c.log.Debugf("wordcount: read %d tokens, %d distinct, table %s",
		redact.Safe(n), redact.Safe(c.tbl.Len()), redact.Safe(c.tbl.Stats().String()))
	return nil
}

// Lookup returns the record for text
func (c *Counter) Lookup(text string) (*elements.Word, bool) {
	e, ok := c.tbl.Lookup(&elements.Word{Text: text})
	if !ok {
		return nil, false
	}
	return *e, true
}

// Top returns up to n records ordered by descending count, ties broken
// alphabetically. A non-positive n returns every record.
func (c *Counter) Top(n int) []*elements.Word {
	words := make([]*elements.Word, 0, c.tbl.Len())
	c.tbl.Range(func(w *elements.Word) bool {
		words = append(words, w)
		return true
	})
	slices.SortFunc(words, func(a, b *elements.Word) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Text, b.Text)
	})
	if n > 0 && n < len(words) {
		words = words[:n]
	}
	return words
}

// Table exposes the underlying table
func (c *Counter) Table() *chained.Table[*elements.Word] {
	return c.tbl
}

// Len returns the number of distinct words
func (c *Counter) Len() int {
	return c.tbl.Len()
}

// Close releases every record
func (c *Counter) Close() {
	c.tbl.Close()
}
