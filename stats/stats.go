// Package stats has running statistics used to summarise datasets and training runs.
package stats

import (
	"fmt"
	"html/template"
	"math"
	"sort"
)

// Calc exponentional moving average
type EMA float64

func (e EMA) Add(val, n float64) float64 {
	if e == 0 {
		return val
	}
	k := 2.0 / (n + 1.0)
	return val*k + float64(e)*(1-k)
}

// Running mean and stddev as per http://www.johndcook.com/blog/standard_deviation/
type Average struct {
	Count, Mean float64
	Var, StdDev float64
	Min, Max    float64
	oldM, oldV  float64
}

func (s *Average) Add(x float64) {
	s.Count++
	if s.Count == 1 {
		s.oldM, s.Mean = x, x
		s.oldV = 0
		s.Min, s.Max = x, x
	} else {
		s.Mean = s.oldM + (x-s.oldM)/s.Count
		s.Var = s.oldV + (x-s.oldM)*(x-s.Mean)
		s.oldM, s.oldV = s.Mean, s.Var
		s.StdDev = math.Sqrt(s.Var / (s.Count - 1))
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
}

func (s *Average) String() string {
	return fmt.Sprintf("%.2f ± %.2f [%g-%g] n=%g", s.Mean, s.StdDev, s.Min, s.Max, s.Count)
}

func (s *Average) HTML() template.HTML {
	var text string
	if s.Mean > 10 {
		if s.StdDev < 0.1 {
			text = fmt.Sprintf("%.1f", s.Mean)
		} else {
			text = fmt.Sprintf("%.1f&PlusMinus;%.1f", s.Mean, s.StdDev)
		}
	} else {
		if s.StdDev < 0.01 {
			text = fmt.Sprintf("%.2f", s.Mean)
		} else {
			text = fmt.Sprintf("%.2f&PlusMinus;%.2f", s.Mean, s.StdDev)
		}
	}
	return template.HTML(text)
}

// Histogram counts integer values such as sequence lengths.
type Histogram struct {
	Counts map[int]int
	Total  int
}

func NewHistogram() *Histogram {
	return &Histogram{Counts: make(map[int]int)}
}

func (h *Histogram) Add(x int) {
	h.Counts[x]++
	h.Total++
}

// Values returns each observation repeated by its count, in ascending order.
func (h *Histogram) Values() []float64 {
	keys := h.Keys()
	vals := make([]float64, 0, h.Total)
	for _, k := range keys {
		for i := 0; i < h.Counts[k]; i++ {
			vals = append(vals, float64(k))
		}
	}
	return vals
}

// Keys returns the distinct values in ascending order.
func (h *Histogram) Keys() []int {
	keys := make([]int, 0, len(h.Counts))
	for k := range h.Counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
