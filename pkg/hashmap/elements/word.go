package elements

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/scottcagno/hashtable/pkg/hash/golden"
)

// Word is a counted word. The text is user data and is redacted
// when a Word is formatted into a redactable string.
type Word struct {
	Text  string
	Count int
}

// NewWord takes ownership of text and returns a record with a count of one
func NewWord(text string) *Word {
	return &Word{Text: text, Count: 1}
}

// SafeFormat implements redact.SafeFormatter
func (w *Word) SafeFormat(p redact.SafePrinter, _ rune) {
	if w == nil {
		p.SafeString("<nil>")
		return
	}
	p.Printf("%s %d", w.Text, redact.Safe(w.Count))
}

func (w *Word) String() string {
	return redact.StringWithoutMarkers(w)
}

// WordOps is the chained.Ops implementation for *Word elements. Key
// derives the integer hashed by the golden ratio function from the
// text; when nil the byte sum of the text is used.
type WordOps struct {
	Key func(text string) int
}

func (o WordOps) Hash(e *Word, size int) int {
	if e == nil {
		return 0
	}
	key := golden.SumBytes
	if o.Key != nil {
		key = o.Key
	}
	return golden.Index(key(e.Text), size)
}

// Compare orders words lexicographically. A nil word sorts first.
func (WordOps) Compare(a, b *Word) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return strings.Compare(a.Text, b.Text)
}

func (WordOps) Create(seed string) (*Word, error) {
	if seed == "" {
		return nil, errors.Wrap(ErrMalformedInput, "empty word")
	}
	return NewWord(seed), nil
}

// Destroy drops the word's text and zeroes its count
func (WordOps) Destroy(e *Word) {
	if e == nil {
		return
	}
	e.Text = ""
	e.Count = 0
}

// Mutate bumps the word's count by one
func (WordOps) Mutate(e **Word) {
	if e == nil || *e == nil {
		return
	}
	(*e).Count++
}

// Dump writes the text byte for byte followed by the count. String and
// SafeFormat are for logging and may escape the text.
func (WordOps) Dump(w io.Writer, e *Word) error {
	if e == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s %d\n", e.Text, e.Count)
	return err
}
