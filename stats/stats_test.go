package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	var s Average
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(x)
	}
	t.Log(s.String())
	assert.Equal(t, 8.0, s.Count)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, "5.00&PlusMinus;2.14", string(s.HTML()))
}

func TestEMA(t *testing.T) {
	assert.Equal(t, 3.0, EMA(0).Add(3, 10))
	assert.InDelta(t, 2.0*2/11+1.0*9/11, EMA(1).Add(2, 10), 1e-9)
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	for _, x := range []int{5, 3, 5, 9} {
		h.Add(x)
	}
	assert.Equal(t, 4, h.Total)
	assert.Equal(t, []int{3, 5, 9}, h.Keys())
	assert.Equal(t, []float64{3, 5, 5, 9}, h.Values())
}
