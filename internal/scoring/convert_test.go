package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToTokensFixedRate(t *testing.T) {
	cases := []struct {
		points int64
		want   string
	}{
		{0, "0.000"},
		{1, "0.001"},
		{189, "0.189"},
		{999, "0.999"},
		{1000, "1.000"},
		{123456, "123.456"},
		{1000000, "1000.000"},
	}

	for _, tc := range cases {
		got := ToTokens(tc.points)
		require.Equal(t, tc.want, got.StringFixed(3), "points=%d", tc.points)
		require.False(t, got.IsNegative())
	}
}

func TestToTokensIsExact(t *testing.T) {
	// Integer points at rate 0.001 always land exactly on 3 decimal places,
	// so converting back must reproduce the points with no drift.
	for _, points := range []int64{1, 7, 189, 999, 1001, 987654321} {
		tokens := ToTokens(points)
		back := tokens.Mul(decimal.NewFromInt(1000))
		require.True(t, back.Equal(decimal.NewFromInt(points)), "points=%d", points)
	}
}

func TestToTokensSumConsistency(t *testing.T) {
	// Summing per-entry token amounts must equal converting the summed
	// points: repeated addition may not drift.
	points := []int64{189, 64, 100, 3, 999}

	var totalPoints int64
	total := decimal.Zero
	for _, p := range points {
		totalPoints += p
		total = total.Add(ToTokens(p))
	}
	require.True(t, total.Equal(ToTokens(totalPoints)))
}
