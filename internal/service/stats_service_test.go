package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(5.0/3.0), d.Std, 1e-9)
	assert.InDelta(t, 2.5, d.Median, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.LessOrEqual(t, d.Min, d.Q1)
	assert.LessOrEqual(t, d.Q1, d.Median)
	assert.LessOrEqual(t, d.Median, d.Q3)
	assert.LessOrEqual(t, d.Q3, d.Max)

	single := Describe([]float64{7})
	assert.Equal(t, 1, single.Count)
	assert.Zero(t, single.Std)
	assert.Equal(t, 7.0, single.Median)

	assert.Equal(t, Description{}, Describe(nil))
}

func TestGroupDescribe(t *testing.T) {
	rows := GroupDescribe(sampleRecords())
	require.Len(t, rows, 4)
	assert.Equal(t, 1, rows[0].Key)
	assert.Equal(t, 8, rows[0].Count)
	assert.Len(t, rows[0].Values, 8)

	heavy := rows[3]
	assert.Equal(t, 4, heavy.Key)
	assert.Equal(t, "Heavy rain", heavy.Name)
	assert.InDelta(t, 7000, heavy.Median, 1e-9)
	assert.Equal(t, 6800.0, heavy.Min)
	assert.Equal(t, 7200.0, heavy.Max)

	assert.Empty(t, GroupDescribe(nil))
}

func TestHistogram(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins := Histogram(values, 3)
	require.Len(t, bins, 3)
	assert.Equal(t, []int{3, 3, 4}, []int{bins[0].Count, bins[1].Count, bins[2].Count})
	assert.Equal(t, 1.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[2].Upper)

	auto := Histogram(values, 0)
	assert.Len(t, auto, SturgesBins(len(values)))
	total := 0
	for _, b := range auto {
		total += b.Count
	}
	assert.Equal(t, len(values), total)

	flat := Histogram([]float64{5, 5, 5}, 0)
	total = 0
	for _, b := range flat {
		total += b.Count
	}
	assert.Equal(t, 3, total)

	assert.Empty(t, Histogram(nil, 0))
}

func TestSturgesBins(t *testing.T) {
	assert.Equal(t, 1, SturgesBins(0))
	assert.Equal(t, 1, SturgesBins(1))
	assert.Equal(t, 6, SturgesBins(19))
	assert.Equal(t, 5, SturgesBins(10))
}

func TestKDE(t *testing.T) {
	values := []float64{1200, 1600, 1800, 2000, 2200, 2600, 3200, 3400, 3000}
	curve := KDE(values, 200)
	require.Len(t, curve, 200)

	area := 0.0
	for i := 1; i < len(curve); i++ {
		area += (curve[i].X - curve[i-1].X) * (curve[i].Density + curve[i-1].Density) / 2
	}
	assert.InDelta(t, 1.0, area, 0.02)
	for _, p := range curve {
		assert.GreaterOrEqual(t, p.Density, 0.0)
	}

	assert.Nil(t, KDE([]float64{1}, 10))
	assert.Nil(t, KDE([]float64{3, 3, 3}, 10))
}
