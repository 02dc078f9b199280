package scoring

import "fmt"

// americanPositionValues holds the points for each finishing position on a hole, keyed by
// field size. A tie group shares the values of every position it occupies equally, which
// keeps the per-hole total fixed (6 for three players, 20 for four) for every tie shape.
var americanPositionValues = map[int][]int{
	3: {4, 2, 0},
	4: {8, 6, 4, 2},
}

// AmericanFieldTotal is the number of points handed out on every hole for a field size,
// or 0 if American scoring is not defined for it.
func AmericanFieldTotal(fieldSize int) int {
	total := 0
	for _, v := range americanPositionValues[fieldSize] {
		total += v
	}
	return total
}

// AmericanPoints returns the points earned by the group at groupIndex, given the sizes of
// every tie group in rank order.
//
// Examples for three players: [1,1,1] → 4,2,0; [2,1] → 3,3,0; [1,2] → 4,1,1; [3] → 2,2,2.
// For four players: [1,3] → 8,4,4,4; [3,1] → 6,6,6,2; [2,2] → 7,7,3,3.
//
// Group sizes that don't add up to 3 or 4, or a group index outside the partition, are
// programming errors and panic.
func AmericanPoints(groupSizes []int, groupIndex int) int {
	field := 0
	for _, size := range groupSizes {
		if size <= 0 {
			panic(fmt.Sprintf("scoring: american tie group size must be positive, got %v", groupSizes))
		}
		field += size
	}

	values, ok := americanPositionValues[field]
	if !ok {
		panic(fmt.Sprintf("scoring: american points need 3 or 4 participants, got %d", field))
	}
	if groupIndex < 0 || groupIndex >= len(groupSizes) {
		panic(fmt.Sprintf("scoring: american group index %d out of range for %v", groupIndex, groupSizes))
	}

	start := 0
	for _, size := range groupSizes[:groupIndex] {
		start += size
	}
	size := groupSizes[groupIndex]

	pool := 0
	for _, v := range values[start : start+size] {
		pool += v
	}
	return pool / size
}

// AmericanHolePoints turns one hole's partition into a points map for every ranked ID.
func AmericanHolePoints(groups []TieGroup) map[string]int {
	sizes := GroupSizes(groups)
	points := make(map[string]int, groupedCount(groups))
	for i, g := range groups {
		p := AmericanPoints(sizes, i)
		for _, id := range g.IDs {
			points[id] = p
		}
	}
	return points
}
