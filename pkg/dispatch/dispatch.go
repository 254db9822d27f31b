// Package dispatch drives tables from scripted input. A session reads
// whitespace separated tokens: an operation count and a bucket index,
// then that many operations ("i <value>" inserts, "r <value>" removes),
// and finally prints the table's capacity and the contents of the
// requested bucket. Operation values are whitespace separated tokens,
// so "i a" inserts 'a' rather than the space that follows the letter.
package dispatch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/scottcagno/hashtable/pkg/config"
	"github.com/scottcagno/hashtable/pkg/hashmap/chained"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
	"github.com/scottcagno/hashtable/pkg/logger"
	"github.com/scottcagno/hashtable/pkg/wordcount"
)

// Selectors accepted by Run
const (
	SelectInts  = 1
	SelectChars = 2
	SelectWords = 3
)

// Dispatcher runs sessions against freshly created tables
type Dispatcher struct {
	out  io.Writer
	conf *config.Config
	log  *logger.Logger
}

// New returns a Dispatcher writing results to out. A nil conf selects
// config.Default and a nil log discards log output.
func New(out io.Writer, conf *config.Config, log *logger.Logger) *Dispatcher {
	if conf == nil {
		conf = config.Default()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Dispatcher{out: out, conf: conf, log: log}
}

// next returns the next token or ErrUnexpectedEnd naming what was expected
func next(tk *wordcount.Tokenizer, what string) (string, error) {
	tok, err := tk.Next()
	if err == io.EOF {
		return "", errors.Wrapf(ErrUnexpectedEnd, "expected %s", redact.Safe(what))
	}
	return tok, err
}

func nextInt(tk *wordcount.Tokenizer, what string) (int, error) {
	tok, err := next(tk, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(elements.ErrMalformedInput, "%s: not an integer: %q", redact.Safe(what), tok)
	}
	return n, nil
}

// Run reads a selector from r and runs the matching session: 1 for an
// int table, 2 for a char table, 3 for a word count. Any other number
// is reported and ignored.
func (d *Dispatcher) Run(r io.Reader) error {
	br := bufio.NewReader(r)
	tk := wordcount.NewTokenizer(br, d.conf.MaxTokenLen)
	sel, err := nextInt(tk, "selector")
	if err != nil {
		return err
	}
	switch sel {
	case SelectInts:
		return RunTable[int](d, tk, elements.IntOps{})
	case SelectChars:
		return RunTable[byte](d, tk, elements.CharOps{})
	case SelectWords:
		query, err := next(tk, "query word")
		if err != nil {
			return err
		}
		return d.RunWords(br, query)
	default:
		_, err := fmt.Fprintf(d.out, "NOTHING TO DO FOR %d\n", sel)
		return err
	}
}

// RunTable runs one insert/remove session on a new table built with ops.
// An operation token longer than one byte carries its value inline, so
// "ia" and "i a" both insert 'a'. Unknown operations are reported and
// their value is skipped; removing an absent value is not an error.
func RunTable[E any](d *Dispatcher, tk *wordcount.Tokenizer, ops chained.Ops[E]) error {
	n, err := nextInt(tk, "operation count")
	if err != nil {
		return err
	}
	index, err := nextInt(tk, "bucket index")
	if err != nil {
		return err
	}
	tbl, err := chained.New[E](d.conf.InitialCapacity, ops, d.conf.TableConfig(d.log))
	if err != nil {
		return err
	}
	defer tbl.Close()

	for i := 0; i < n; i++ {
		op, err := next(tk, "operation")
		if err != nil {
			return errors.Wrapf(err, "operation %d", i+1)
		}
		seed := op[1:]
		if seed == "" {
			if seed, err = next(tk, "operation value"); err != nil {
				return errors.Wrapf(err, "operation %d", i+1)
			}
		}
		if err := apply(d, tbl, ops, op[0], seed); err != nil {
			return errors.Wrapf(err, "operation %d", i+1)
		}
	}
	d.log.Debugf("dispatch: session done, %s", redact.Safe(tbl.Stats().String()))

	if _, err := fmt.Fprintf(d.out, "%d\n", tbl.Cap()); err != nil {
		return err
	}
	return tbl.DumpBucket(d.out, index)
}

// apply runs a single operation against tbl. A remove of an absent value
// is logged and ignored; every other table error is returned.
func apply[E any](d *Dispatcher, tbl *chained.Table[E], ops chained.Ops[E], op byte, seed string) error {
	e, err := ops.Create(seed)
	if err != nil {
		return err
	}
	switch op {
	case 'i':
		if err := tbl.Insert(e); err != nil {
			ops.Destroy(e)
			return err
		}
	case 'r':
		err := tbl.Remove(e)
		ops.Destroy(e)
		if errors.Is(err, chained.ErrNotFound) {
			d.log.Debugf("dispatch: remove %s: not present", seed)
			return nil
		}
		return err
	default:
		ops.Destroy(e)
		_, err := fmt.Fprintf(d.out, "No such operation: %c\n", op)
		return err
	}
	return nil
}

// RunWords counts every word in r, then prints the table's capacity and
// the record for query if it was seen
func (d *Dispatcher) RunWords(r io.Reader, query string) error {
	c, err := wordcount.NewCounter(d.conf.CounterConfig(d.log))
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Feed(r); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(d.out, "%d\n", c.Table().Cap()); err != nil {
		return err
	}
	if w, ok := c.Lookup(query); ok {
		return elements.WordOps{}.Dump(d.out, w)
	}
	return nil
}
