package scoring

import (
	"cmp"
	"slices"
)

// Direction says which end of a comparison wins.
type Direction int

const (
	LowerIsBetter  Direction = iota // strokes
	HigherIsBetter                  // points, holes up
)

// Entry is one participant's comparable value on a hole. A nil Value means the
// participant has nothing to compare yet.
type Entry struct {
	ID    string
	Value *int
}

// TieGroup is a set of participants sharing the same value.
type TieGroup struct {
	Value int      `json:"value"`
	IDs   []string `json:"ids"`
}

// PartitionTies splits entries into groups of equal value ordered best to worst.
// Entries without a value are left out. The sort is stable, so inside a group the IDs
// keep the order they were given in.
func PartitionTies(entries []Entry, dir Direction) []TieGroup {
	present := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Value != nil {
			present = append(present, e)
		}
	}

	slices.SortStableFunc(present, func(a, b Entry) int {
		if dir == HigherIsBetter {
			return cmp.Compare(*b.Value, *a.Value)
		}
		return cmp.Compare(*a.Value, *b.Value)
	})

	var groups []TieGroup
	for _, e := range present {
		if n := len(groups); n > 0 && groups[n-1].Value == *e.Value {
			groups[n-1].IDs = append(groups[n-1].IDs, e.ID)
			continue
		}
		groups = append(groups, TieGroup{Value: *e.Value, IDs: []string{e.ID}})
	}
	return groups
}

// GroupSizes returns the size of each group in rank order.
func GroupSizes(groups []TieGroup) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g.IDs)
	}
	return sizes
}

// GroupIndex returns the index of the group containing id, or -1.
func GroupIndex(groups []TieGroup, id string) int {
	for i, g := range groups {
		if slices.Contains(g.IDs, id) {
			return i
		}
	}
	return -1
}

// groupedCount is the number of participants across all groups.
func groupedCount(groups []TieGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.IDs)
	}
	return n
}
