package chained

import "fmt"

// Stats is a snapshot of a table's shape
type Stats struct {
	Len          int   // live elements
	Cap          int   // buckets
	Grows        int   // number of times the table has doubled
	Used         int   // non-empty buckets
	LongestChain int   // length of the longest chain
	Chains       []int // Chains[n] is the number of buckets holding n elements
}

// LoadFactor returns Len / Cap
func (s Stats) LoadFactor() float64 {
	if s.Cap == 0 {
		return 0
	}
	return float64(s.Len) / float64(s.Cap)
}

func (s Stats) String() string {
	return fmt.Sprintf("len=%d cap=%d grows=%d used=%d longest=%d load=%.2f",
		s.Len, s.Cap, s.Grows, s.Used, s.LongestChain, s.LoadFactor())
}

// Stats walks every bucket and reports the table's shape
func (t *Table[E]) Stats() Stats {
	st := Stats{
		Len:   t.keys,
		Cap:   len(t.buckets),
		Grows: t.grows,
	}
	for i := range t.buckets {
		n := t.buckets[i].length()
		if n > 0 {
			st.Used++
		}
		if n > st.LongestChain {
			st.LongestChain = n
		}
		for len(st.Chains) <= n {
			st.Chains = append(st.Chains, 0)
		}
		st.Chains[n]++
	}
	return st
}
