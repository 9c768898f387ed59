package mem

import (
	"math"
	"strings"
	"testing"

	d "github.com/invertedv/claimsprep/df"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	x := make([]float64, 100)
	for ind := range x {
		x[ind] = float64(ind + 1)
	}

	col, e := NewCol(x, d.DTfloat, d.ColName("x"))
	require.Nil(t, e)

	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{1, 100},
		{0.5, 50.5},
		{0.99, 99.01},
		{0.25, 25.75},
	}

	for _, c := range cases {
		got, ok := col.Quantile(c.q)
		assert.True(t, ok)
		assert.InDelta(t, c.want, got, 1e-9, c.q)
	}

	_, ok := col.Quantile(1.5)
	assert.False(t, ok)

	empty, _ := NewCol([]float64{math.NaN(), math.NaN()}, d.DTfloat, d.ColName("e"))
	_, ok = empty.Median()
	assert.False(t, ok)

	s, _ := NewCol([]string{"a"}, d.DTstring, d.ColName("s"))
	_, ok = s.Median()
	assert.False(t, ok)
}

func TestMedianMean(t *testing.T) {
	col, _ := NewCol([]any{4, nil, 1, 3, 2}, d.DTint, d.ColName("x"))
	med, ok := col.Median()
	assert.True(t, ok)
	assert.Equal(t, 2.5, med)

	mean, ok := col.Mean()
	assert.True(t, ok)
	assert.Equal(t, 2.5, mean)

	odd, _ := NewCol([]float64{5, 1, 3}, d.DTfloat, d.ColName("o"))
	med, _ = odd.Median()
	assert.Equal(t, 3.0, med)
}

func TestModeUnique(t *testing.T) {
	col, _ := NewCol([]any{"b", "a", nil, "b", "a", "c"}, d.DTstring, d.ColName("x"))
	mode, ok := col.Mode()
	assert.True(t, ok)
	// a and b tie; the smaller wins
	assert.Equal(t, "a", mode)
	assert.Equal(t, []any{"b", "a", "c"}, col.Unique())

	nums, _ := NewCol([]int{3, 3, 1}, d.DTint, d.ColName("n"))
	mode, _ = nums.Mode()
	assert.Equal(t, 3, mode)

	none, _ := NewCol([]any{nil, nil}, d.DTstring, d.ColName("none"))
	_, ok = none.Mode()
	assert.False(t, ok)
	assert.Nil(t, none.Unique())
}

func TestDescribe(t *testing.T) {
	dfx := testDF(t)

	desc, e := Describe(dfx)
	require.Nil(t, e)
	assert.Equal(t, []string{"statistic", "x", "y"}, desc.ColumnNames())
	assert.Equal(t, 10, desc.RowCount())

	stat, _ := desc.Col("statistic")
	x, _ := desc.Col("x")
	for row := 0; row < stat.Len(); row++ {
		switch stat.Element(row) {
		case "count":
			assert.Equal(t, 5.0, x.Element(row))
		case "missing":
			assert.Equal(t, 1.0, x.Element(row))
		case "min":
			assert.Equal(t, -2.0, x.Element(row))
		case "max":
			assert.Equal(t, 3.5, x.Element(row))
		case "50%":
			assert.Equal(t, 2.0, x.Element(row))
		case "mean":
			assert.InDelta(t, 1.5, x.Element(row), 1e-12)
		}
	}

	_, e = Describe(dfx, "z")
	assert.NotNil(t, e)

	desc, e = Describe(dfx, "y")
	require.Nil(t, e)
	assert.Equal(t, []string{"statistic", "y"}, desc.ColumnNames())
	assert.True(t, strings.Contains(desc.Table(-1), "count"))

	col, _ := dfx.Col("x")
	assert.True(t, strings.Contains(col.String(), "25%"))
	zc, _ := dfx.Col("z")
	assert.True(t, strings.Contains(zc.String(), "distinct: 3"))
}
