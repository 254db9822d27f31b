package chained

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/scottcagno/hashtable/pkg/hashmap/elements"
	"github.com/stretchr/testify/require"
)

// chain returns the elements of bucket i in chain order
func chain[E any](t *Table[E], i int) []E {
	var out []E
	t.buckets[i].scan(func(s *slot[E]) bool {
		out = append(out, s.elem)
		return true
	})
	return out
}

// requireOrdered checks every chain is in non-decreasing compare order
// and that every element sits in the bucket it hashes to
func requireOrdered[E any](t *testing.T, tbl *Table[E]) {
	t.Helper()
	for i := range tbl.buckets {
		elems := chain(tbl, i)
		for j := range elems {
			require.Equal(t, i, tbl.ops.Hash(elems[j], tbl.Cap()), "element in wrong bucket")
			if j > 0 {
				require.LessOrEqual(t, tbl.ops.Compare(elems[j-1], elems[j]), 0, "bucket %d out of order", i)
			}
		}
	}
}

// trackingOps wraps WordOps and records which words are still alive
type trackingOps struct {
	elements.WordOps
	live map[*elements.Word]bool
}

func newTrackingOps() *trackingOps {
	return &trackingOps{live: make(map[*elements.Word]bool)}
}

func (o *trackingOps) Create(seed string) (*elements.Word, error) {
	w, err := o.WordOps.Create(seed)
	if err == nil {
		o.live[w] = true
	}
	return w, err
}

func (o *trackingOps) Destroy(e *elements.Word) {
	if !o.live[e] {
		panic(fmt.Sprintf("double destroy of %v", e))
	}
	delete(o.live, e)
	o.WordOps.Destroy(e)
}

func TestNew(t *testing.T) {
	tbl, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Cap())
	require.Equal(t, 0, tbl.Len())
	require.Nil(t, tbl.mut)

	_, err = New[int](0, elements.IntOps{}, nil)
	require.True(t, errors.Is(err, ErrInvalidCapacity))

	_, err = New[int](64, elements.IntOps{}, &Config{MaxCapacity: 32})
	require.True(t, errors.Is(err, ErrAllocation))

	_, err = New[int](4, nil, nil)
	require.Error(t, err)

	wt, err := New[*elements.Word](8, elements.WordOps{}, nil)
	require.NoError(t, err)
	require.NotNil(t, wt.mut)
}

func Test_checkConfig(t *testing.T) {
	c := checkConfig(nil)
	require.Equal(t, DefaultLoadFactor, c.MaxLoadFactor)
	require.Equal(t, DefaultMaxCapacity, c.MaxCapacity)
	require.NotNil(t, c.Logger)

	c = checkConfig(&Config{MaxLoadFactor: 0.01, MaxCapacity: 8})
	require.Equal(t, minLoadFactor, c.MaxLoadFactor)
	require.Equal(t, 8, c.MaxCapacity)

	in := &Config{MaxLoadFactor: 100}
	c = checkConfig(in)
	require.Equal(t, maxLoadFactor, c.MaxLoadFactor)
	require.Equal(t, 100.0, in.MaxLoadFactor, "caller's config must not be modified")
}

func TestTableLookupExample(t *testing.T) {
	tbl, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	for _, n := range []int{5, 13, 21} {
		require.NoError(t, tbl.Insert(n))
	}
	e, ok := tbl.Lookup(13)
	require.True(t, ok)
	require.Equal(t, 13, *e)
	_, ok = tbl.Lookup(7)
	require.False(t, ok)
	require.Equal(t, 4, tbl.Cap())
	require.Equal(t, []int{5, 13}, chain(tbl, 0))
	require.Equal(t, []int{21}, chain(tbl, 3))
}

func TestTableInsertKeepsDuplicatesInOrder(t *testing.T) {
	tbl, err := New[*elements.Word](1, elements.WordOps{}, &Config{MaxLoadFactor: 16})
	require.NoError(t, err)
	first := elements.NewWord("b")
	second := elements.NewWord("b")
	for _, w := range []*elements.Word{first, elements.NewWord("c"), elements.NewWord("a"), second} {
		require.NoError(t, tbl.Insert(w))
	}
	got := chain(tbl, 0)
	require.Len(t, got, 4)
	require.Same(t, first, got[1])
	require.Same(t, second, got[2])
	texts := make([]string, len(got))
	for i, w := range got {
		texts[i] = w.Text
	}
	if diff := cmp.Diff([]string{"a", "b", "b", "c"}, texts); diff != "" {
		t.Fatalf("chain order mismatch (-want +got):\n%s", diff)
	}
	// lookup finds the older of the two equal words
	e, ok := tbl.Lookup(&elements.Word{Text: "b"})
	require.True(t, ok)
	require.Same(t, first, *e)
}

func TestTableGrow(t *testing.T) {
	tbl, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	for i := 1; i <= 4; i++ {
		require.NoError(t, tbl.Insert(i))
	}
	require.Equal(t, 4, tbl.Cap())
	require.NoError(t, tbl.Insert(5))
	require.Equal(t, 8, tbl.Cap())
	require.Equal(t, 5, tbl.Len())
	require.Equal(t, 1, tbl.Stats().Grows)
	for i := 1; i <= 5; i++ {
		_, ok := tbl.Lookup(i)
		require.True(t, ok, "lost %d across grow", i)
	}
	requireOrdered(t, tbl)
}

func TestTableGrowKeepsIdentity(t *testing.T) {
	tbl, err := New[*elements.Word](2, elements.WordOps{}, nil)
	require.NoError(t, err)
	words := make([]*elements.Word, 0, 50)
	for i := 0; i < 50; i++ {
		w := elements.NewWord("w" + strconv.Itoa(i))
		words = append(words, w)
		require.NoError(t, tbl.Insert(w))
	}
	require.Equal(t, 64, tbl.Cap())
	for _, w := range words {
		e, ok := tbl.Lookup(&elements.Word{Text: w.Text})
		require.True(t, ok)
		require.Same(t, w, *e)
	}
	requireOrdered(t, tbl)
}

func TestTableGrowAllocationFailure(t *testing.T) {
	tbl, err := New[int](2, elements.IntOps{}, &Config{MaxCapacity: 2})
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(1))
	require.NoError(t, tbl.Insert(2))
	err = tbl.Insert(3)
	require.True(t, errors.Is(err, ErrAllocation))
	require.Equal(t, 2, tbl.Cap())
	require.Equal(t, 2, tbl.Len())
	_, ok := tbl.Lookup(3)
	require.False(t, ok)
	for _, n := range []int{1, 2} {
		_, ok := tbl.Lookup(n)
		require.True(t, ok)
	}
	// still fully usable
	require.NoError(t, tbl.Remove(1))
	require.NoError(t, tbl.Insert(3))
	requireOrdered(t, tbl)
}

func TestTableRemove(t *testing.T) {
	ops := newTrackingOps()
	tbl, err := New[*elements.Word](4, ops, nil)
	require.NoError(t, err)
	for _, s := range []string{"the", "cat", "dog"} {
		w, err := ops.Create(s)
		require.NoError(t, err)
		require.NoError(t, tbl.Insert(w))
	}
	require.NoError(t, tbl.Remove(&elements.Word{Text: "cat"}))
	require.Equal(t, 2, tbl.Len())
	require.Len(t, ops.live, 2)
	_, ok := tbl.Lookup(&elements.Word{Text: "cat"})
	require.False(t, ok)

	err = tbl.Remove(&elements.Word{Text: "cat"})
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, 2, tbl.Len())
	for _, s := range []string{"the", "dog"} {
		_, ok := tbl.Lookup(&elements.Word{Text: s})
		require.True(t, ok)
	}
}

func TestTableRemoveEmptyBucket(t *testing.T) {
	tbl, err := New[int](8, elements.IntOps{}, nil)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		require.True(t, errors.Is(tbl.Remove(i), ErrNotFound))
	}
	require.Equal(t, 0, tbl.Len())
}

func TestTableRemoveHeadMiddleTail(t *testing.T) {
	tbl, err := New[int](1, elements.IntOps{}, &Config{MaxLoadFactor: 16})
	require.NoError(t, err)
	for _, n := range []int{4, 1, 3, 2, 5} {
		require.NoError(t, tbl.Insert(n))
	}
	require.Equal(t, []int{1, 2, 3, 4, 5}, chain(tbl, 0))
	require.NoError(t, tbl.Remove(1))
	require.Equal(t, []int{2, 3, 4, 5}, chain(tbl, 0))
	require.NoError(t, tbl.Remove(3))
	require.Equal(t, []int{2, 4, 5}, chain(tbl, 0))
	require.NoError(t, tbl.Remove(5))
	require.Equal(t, []int{2, 4}, chain(tbl, 0))
	require.True(t, errors.Is(tbl.Remove(3), ErrNotFound))
	require.Equal(t, 2, tbl.Len())
}

func TestTableMutate(t *testing.T) {
	tbl, err := New[*elements.Word](8, elements.WordOps{}, nil)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(elements.NewWord("the")))
	require.NoError(t, tbl.Mutate(&elements.Word{Text: "the"}))
	e, ok := tbl.Lookup(&elements.Word{Text: "the"})
	require.True(t, ok)
	require.Equal(t, 2, (*e).Count)
	require.True(t, errors.Is(tbl.Mutate(&elements.Word{Text: "cat"}), ErrNotFound))

	it, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	require.True(t, errors.Is(it.Mutate(1), ErrNoMutator))
}

func TestTableDumpBucket(t *testing.T) {
	tbl, err := New[byte](4, elements.CharOps{}, nil)
	require.NoError(t, err)
	for _, c := range []byte("cab") {
		require.NoError(t, tbl.Insert(c))
	}
	var buf bytes.Buffer
	for i := 0; i < tbl.Cap(); i++ {
		require.NoError(t, tbl.DumpBucket(&buf, i))
	}
	require.Len(t, buf.String(), 3)
	require.ElementsMatch(t, []byte("abc"), buf.Bytes())

	err = tbl.DumpBucket(&buf, 4)
	require.True(t, errors.Is(err, ErrBucketRange))
	err = tbl.DumpBucket(&buf, -1)
	require.True(t, errors.Is(err, ErrBucketRange))
}

func TestTableRange(t *testing.T) {
	tbl, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, tbl.Insert(i))
	}
	var sum, seen int
	tbl.Range(func(e int) bool {
		sum += e
		seen++
		return true
	})
	require.Equal(t, 190, sum)
	require.Equal(t, 20, seen)

	seen = 0
	tbl.Range(func(e int) bool {
		seen++
		return seen < 3
	})
	require.Equal(t, 3, seen)
}

func TestTableClose(t *testing.T) {
	ops := newTrackingOps()
	tbl, err := New[*elements.Word](2, ops, nil)
	require.NoError(t, err)
	for i := 0; i < 40; i++ {
		w, err := ops.Create(strings.Repeat("x", i%7+1) + strconv.Itoa(i))
		require.NoError(t, err)
		require.NoError(t, tbl.Insert(w))
	}
	require.NoError(t, tbl.Remove(&elements.Word{Text: "x0"}))
	require.Len(t, ops.live, 39)
	tbl.Close()
	require.Empty(t, ops.live, "close must destroy every remaining element")
	require.Equal(t, 0, tbl.Len())

	// terminal state
	tbl.Close()
	require.True(t, errors.Is(tbl.Insert(elements.NewWord("y")), ErrClosed))
	require.True(t, errors.Is(tbl.Remove(&elements.Word{Text: "x1"}), ErrClosed))
	_, ok := tbl.Lookup(&elements.Word{Text: "x1"})
	require.False(t, ok)
}

func TestTableStats(t *testing.T) {
	tbl, err := New[int](4, elements.IntOps{}, nil)
	require.NoError(t, err)
	for _, n := range []int{5, 13, 21} {
		require.NoError(t, tbl.Insert(n))
	}
	st := tbl.Stats()
	require.Equal(t, Stats{
		Len:          3,
		Cap:          4,
		Used:         2,
		LongestChain: 2,
		Chains:       []int{2, 1, 1},
	}, st)
	require.Equal(t, 0.75, st.LoadFactor())
	require.Equal(t, 0.75, tbl.PercentFull())
	require.Equal(t, "len=3 cap=4 grows=0 used=2 longest=2 load=0.75", st.String())
}

func TestTableDataDriven(t *testing.T) {
	var tbl *Table[int]
	datadriven.RunTest(t, "testdata/table", func(t *testing.T, d *datadriven.TestData) string {
		var out strings.Builder
		summary := func() {
			fmt.Fprintf(&out, "cap=%d len=%d\n", tbl.Cap(), tbl.Len())
		}
		ints := func() []int {
			var ns []int
			for _, f := range strings.Fields(d.Input) {
				n, err := strconv.Atoi(f)
				require.NoError(t, err)
				ns = append(ns, n)
			}
			return ns
		}
		switch d.Cmd {
		case "new":
			var size int
			d.ScanArgs(t, "size", &size)
			conf := &Config{}
			if d.HasArg("max-cap") {
				d.ScanArgs(t, "max-cap", &conf.MaxCapacity)
			}
			var err error
			tbl, err = New[int](size, elements.IntOps{}, conf)
			if err != nil {
				return "error: " + err.Error()
			}
			summary()
		case "insert":
			for _, n := range ints() {
				if err := tbl.Insert(n); err != nil {
					fmt.Fprintf(&out, "error: %v\n", err)
				}
			}
			summary()
		case "remove":
			for _, n := range ints() {
				if err := tbl.Remove(n); err != nil {
					fmt.Fprintf(&out, "%d: not found\n", n)
					continue
				}
				fmt.Fprintf(&out, "%d: removed\n", n)
			}
			summary()
		case "lookup":
			for _, n := range ints() {
				if _, ok := tbl.Lookup(n); ok {
					fmt.Fprintf(&out, "%d: found\n", n)
				} else {
					fmt.Fprintf(&out, "%d: not found\n", n)
				}
			}
		case "dump":
			var i int
			d.ScanArgs(t, "bucket", &i)
			if err := tbl.DumpBucket(&out, i); err != nil {
				return "error: " + err.Error()
			}
			if out.Len() == 0 {
				return "(empty)"
			}
		case "stats":
			return tbl.Stats().String()
		default:
			d.Fatalf(t, "unknown command %s", d.Cmd)
		}
		requireOrdered(t, tbl)
		return out.String()
	})
}
