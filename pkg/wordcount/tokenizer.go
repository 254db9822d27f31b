package wordcount

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
)

// DefaultMaxTokenLen bounds the length of a single token in bytes
const DefaultMaxTokenLen = 1024

// isSpace reports whether c separates tokens
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Tokenizer splits a byte stream into whitespace separated tokens
type Tokenizer struct {
	r   *bufio.Reader
	max int
	buf []byte
	eof bool
}

// NewTokenizer returns a Tokenizer reading from r. Tokens longer than
// maxLen bytes are rejected; a non-positive maxLen selects
// DefaultMaxTokenLen.
func NewTokenizer(r io.Reader, maxLen int) *Tokenizer {
	if maxLen <= 0 {
		maxLen = DefaultMaxTokenLen
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Tokenizer{
		r:   br,
		max: maxLen,
		buf: make([]byte, 0, 64),
	}
}

// Next returns the next token. A partial token still buffered when the
// stream ends is returned as the final token; after that Next returns
// io.EOF.
func (tk *Tokenizer) Next() (string, error) {
	tk.buf = tk.buf[:0]
	if tk.eof {
		return "", io.EOF
	}
	for {
		c, err := tk.r.ReadByte()
		if err == io.EOF {
			tk.eof = true
			if len(tk.buf) > 0 {
				return string(tk.buf), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", errors.Wrap(err, "wordcount: reading input")
		}
		if isSpace(c) {
			if len(tk.buf) > 0 {
				return string(tk.buf), nil
			}
			continue
		}
		if len(tk.buf) == tk.max {
			return "", errors.Wrapf(ErrTokenTooLong, "more than %d bytes", tk.max)
		}
		tk.buf = append(tk.buf, c)
	}
}
