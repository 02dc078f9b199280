package scoring

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatedStrokes(t *testing.T) {
	tests := []struct {
		name        string
		handicap    string
		strokeIndex int
		holeCount   int
		want        int
	}{
		{name: "scratch gets nothing", handicap: "0", strokeIndex: 1, holeCount: 18, want: 0},
		{name: "18 gets one everywhere", handicap: "18", strokeIndex: 18, holeCount: 18, want: 1},
		{name: "fractional inside remainder", handicap: "14.2", strokeIndex: 14, holeCount: 18, want: 1},
		{name: "fractional outside remainder", handicap: "14.2", strokeIndex: 15, holeCount: 18, want: 0},
		{name: "20 gets two on index 2", handicap: "20", strokeIndex: 2, holeCount: 18, want: 2},
		{name: "20 gets one on index 3", handicap: "20", strokeIndex: 3, holeCount: 18, want: 1},
		{name: "36 gets two everywhere", handicap: "36", strokeIndex: 18, holeCount: 18, want: 2},
		{name: "nine hole round", handicap: "10", strokeIndex: 1, holeCount: 9, want: 2},
		{name: "plus handicap leaves hard holes alone", handicap: "-2", strokeIndex: 16, holeCount: 18, want: 0},
		{name: "plus handicap gives back on easy holes", handicap: "-2", strokeIndex: 17, holeCount: 18, want: -1},
		{name: "stroke index zero", handicap: "18", strokeIndex: 0, holeCount: 18, want: 0},
		{name: "stroke index past hole count", handicap: "18", strokeIndex: 19, holeCount: 18, want: 0},
		{name: "handicap above range", handicap: "60", strokeIndex: 1, holeCount: 18, want: 0},
		{name: "handicap below range", handicap: "-11", strokeIndex: 18, holeCount: 18, want: 0},
		{name: "no holes", handicap: "18", strokeIndex: 1, holeCount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocatedStrokes(decimal.RequireFromString(tt.handicap), tt.strokeIndex, tt.holeCount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNetScore(t *testing.T) {
	t.Run("absent gross has no net", func(t *testing.T) {
		assert.Nil(t, NetScore(nil, decimal.NewFromInt(10), 1, 18))
	})

	t.Run("zero gross counts as unplayed", func(t *testing.T) {
		assert.Nil(t, NetScore(intPtr(0), decimal.NewFromInt(10), 1, 18))
	})

	t.Run("subtracts allocated strokes", func(t *testing.T) {
		net := NetScore(intPtr(5), decimal.NewFromInt(20), 1, 18)
		require.NotNil(t, net)
		assert.Equal(t, 3, *net)
	})

	t.Run("never below zero", func(t *testing.T) {
		net := NetScore(intPtr(2), decimal.NewFromInt(54), 1, 18)
		require.NotNil(t, net)
		assert.Equal(t, 0, *net)
	})

	t.Run("plus handicap adds a stroke", func(t *testing.T) {
		net := NetScore(intPtr(4), decimal.NewFromInt(-1), 18, 18)
		require.NotNil(t, net)
		assert.Equal(t, 5, *net)
	})
}

// Net never exceeds gross for a non-negative handicap and never goes below zero.
func TestNetScoreBounds(t *testing.T) {
	f := gofakeit.New(42)

	for i := 0; i < 2000; i++ {
		holeCount := 9
		if f.Bool() {
			holeCount = 18
		}
		gross := f.IntRange(1, 12)
		strokeIndex := f.IntRange(1, holeCount)
		handicap := decimal.NewFromFloat(f.Float64Range(-10, 54)).Round(1)

		net := NetScore(&gross, handicap, strokeIndex, holeCount)
		require.NotNil(t, net)
		assert.GreaterOrEqual(t, *net, 0, "handicap %s index %d", handicap, strokeIndex)
		if !handicap.IsNegative() {
			assert.LessOrEqual(t, *net, gross, "handicap %s index %d", handicap, strokeIndex)
		}
	}
}

// Over a full round the allocation hands out exactly the rounded-down handicap.
func TestAllocatedStrokesSumToHandicap(t *testing.T) {
	for h := 0; h <= 54; h++ {
		total := 0
		for si := 1; si <= 18; si++ {
			total += AllocatedStrokes(decimal.NewFromInt(int64(h)), si, 18)
		}
		assert.Equal(t, h, total, "handicap %d", h)
	}
}
