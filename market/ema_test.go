package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_WarmupAndReady(t *testing.T) {
	ema := NewEMA(3)

	require.False(t, ema.Ready())
	require.Equal(t, 3, ema.Warmup())
	require.Equal(t, "EMA(3)", ema.Name())

	ema.Update(1.0)
	require.False(t, ema.Ready())
	ema.Update(2.0)
	require.False(t, ema.Ready())
	ema.Update(3.0)
	require.True(t, ema.Ready())

	ema.Reset()
	require.False(t, ema.Ready())
	require.Equal(t, 0.0, ema.Float64())
}

func TestEMA_KnownSequence(t *testing.T) {
	// alpha = 2/(3+1) = 0.5
	// 10 -> 10.5 -> 11.25 -> 12.125
	ema := NewEMA(3)
	for _, v := range []float64{10, 11, 12, 13} {
		ema.Update(v)
	}
	require.InDelta(t, 12.125, ema.Float64(), 1e-9)
}

func TestEMA_PanicsOnBadPeriod(t *testing.T) {
	assert.Panics(t, func() { NewEMA(0) })
}

func TestSummarize(t *testing.T) {
	trends := Summarize(map[string][]float64{
		"LINK": {8.20, 8.40, 8.35, 8.60, 8.75, 8.88, 8.95},
		"DOWN": {10, 10, 10, 10, 9},
		"FLAT": {5, 5, 5, 5, 5},
		"NEW":  {1, 2},
		"NONE": {},
	}, 3)

	require.Len(t, trends, 4)
	assert.Equal(t, []string{"DOWN", "FLAT", "LINK", "NEW"},
		[]string{trends[0].Symbol, trends[1].Symbol, trends[2].Symbol, trends[3].Symbol})

	assert.Equal(t, Down, trends[0].Direction)
	assert.InDelta(t, 9.5, trends[0].EMA, 1e-9)
	assert.InDelta(t, -10, trends[0].Change, 1e-9)

	assert.Equal(t, Flat, trends[1].Direction)
	assert.Equal(t, 0.0, trends[1].Change)

	assert.Equal(t, Up, trends[2].Direction)
	assert.Equal(t, 8.95, trends[2].Last)

	// too short for the EMA to warm up
	assert.Equal(t, Flat, trends[3].Direction)
	assert.InDelta(t, 100, trends[3].Change, 1e-9)
}
