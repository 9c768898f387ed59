package mem

import (
	"math"
	"sort"
	"time"

	d "github.com/invertedv/claimsprep/df"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ***************** Statistics *****************
// All statistics skip missing values.

// present returns the sorted non-missing values of a numeric vector.
func present(v *d.Vector) []float64 {
	if !v.VectorType().IsNumeric() {
		return nil
	}

	x, _ := v.AsFloat()
	out := make([]float64, 0, len(x))
	for ind, xv := range x {
		if !v.IsMissing(ind) && !math.IsNaN(xv) {
			out = append(out, xv)
		}
	}

	sort.Float64s(out)

	return out
}

// quantile is the q quantile of sorted x, interpolating linearly between the order statistics
// that bracket q*(n-1).
func quantile(q float64, x []float64) float64 {
	n := len(x)
	if n == 1 {
		return x[0]
	}

	h := q * float64(n-1)
	lo := math.Floor(h)
	ilo := int(lo)
	if ilo >= n-1 {
		return x[n-1]
	}

	return x[ilo] + (h-lo)*(x[ilo+1]-x[ilo])
}

// Quantile returns the q quantile of a numeric column. ok is false if there are no values.
func (c *Col) Quantile(q float64) (val float64, ok bool) {
	x := present(c.Vector)
	if len(x) == 0 || q < 0 || q > 1 {
		return math.NaN(), false
	}

	return quantile(q, x), true
}

// Median is the 0.5 quantile: the mean of the middle two values when the count is even.
func (c *Col) Median() (val float64, ok bool) {
	return c.Quantile(0.5)
}

func (c *Col) Mean() (val float64, ok bool) {
	x := present(c.Vector)
	if len(x) == 0 {
		return math.NaN(), false
	}

	return stat.Mean(x, nil), true
}

// Mode returns the most frequent value. Ties go to the smallest value. ok is false if every
// element is missing.
func (c *Col) Mode() (val any, ok bool) {
	counts := make(map[any]int)
	for ind := 0; ind < c.Len(); ind++ {
		if x := c.Element(ind); x != nil {
			counts[x]++
		}
	}

	if len(counts) == 0 {
		return nil, false
	}

	maxCount := 0
	for _, ct := range counts {
		if ct > maxCount {
			maxCount = ct
		}
	}

	var modes []any
	for k, ct := range counts {
		if ct == maxCount {
			modes = append(modes, k)
		}
	}

	sort.Slice(modes, func(i, j int) bool { return lessAny(modes[i], modes[j]) })

	return modes[0], true
}

// Unique returns the distinct non-missing values in order of first appearance.
func (c *Col) Unique() []any {
	seen := make(map[any]bool)
	var out []any
	for ind := 0; ind < c.Len(); ind++ {
		x := c.Element(ind)
		if x == nil || seen[x] {
			continue
		}

		seen[x] = true
		out = append(out, x)
	}

	return out
}

func lessAny(a, b any) bool {
	switch x := a.(type) {
	case float64:
		return x < b.(float64)
	case int:
		return x < b.(int)
	case string:
		return x < b.(string)
	case time.Time:
		return x.Before(b.(time.Time))
	}

	return false
}

// ***************** Summary *****************

type summary struct {
	n, missing                int
	mean, std, skew           float64
	minX, q25, q50, q75, maxX float64
}

func summarize(v *d.Vector) *summary {
	x := present(v)
	s := &summary{n: len(x), missing: v.MissingCount()}
	s.mean, s.std, s.skew = math.NaN(), math.NaN(), math.NaN()
	s.minX, s.q25, s.q50, s.q75, s.maxX = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()

	if len(x) == 0 {
		return s
	}

	s.mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.std = stat.StdDev(x, nil)
	}

	if len(x) > 2 {
		s.skew = stat.Skew(x, nil)
	}

	s.minX, s.maxX = floats.Min(x), floats.Max(x)
	s.q25, s.q50, s.q75 = quantile(0.25, x), quantile(0.5, x), quantile(0.75, x)

	return s
}

func (s *summary) labels() []string {
	return []string{"count", "missing", "mean", "std", "min", "25%", "50%", "75%", "max", "skew"}
}

func (s *summary) values() []float64 {
	return []float64{float64(s.n), float64(s.missing), s.mean, s.std, s.minX, s.q25, s.q50, s.q75, s.maxX, s.skew}
}
