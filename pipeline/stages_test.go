package pipeline

import (
	"math"
	"testing"

	d "github.com/invertedv/claimsprep/df"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeTargets(t *testing.T) {
	cfg := Default()
	in := claims(t)

	out, e := SanitizeTargets(cfg)(in)
	require.Nil(t, e)

	// the NA annual leave row is dropped; out of range values are clipped, not dropped
	assert.Equal(t, 5, out.RowCount())
	assert.Equal(t, 6, in.RowCount())
	assert.Equal(t, []float64{0.9, 1, 0.99, 0.5, 0.4}, floats(t, out, ColAnnualLeave))
	assert.Equal(t, []float64{0, 0.97, 1, 0.8, 0.93}, floats(t, out, ColWages))

	// the input is not modified
	assert.Equal(t, -0.3, floats(t, in, ColWages)[0])
}

func TestSanitizeTargetsPercent(t *testing.T) {
	cfg := Default()
	cfg.Targets = []string{"pct", "absent"}

	df := newDF(t,
		newCol(t, "pct", []string{"85%", "bad", "0.5", "120%", ""}, d.DTstring),
		newCol(t, "id", []int{1, 2, 3, 4, 5}, d.DTint))

	out, e := SanitizeTargets(cfg)(df)
	require.Nil(t, e)
	assert.Equal(t, []float64{0.85, 0.5, 1}, floats(t, out, "pct"))
	assert.Equal(t, []float64{1, 3, 4}, floats(t, out, "id"))
}

func TestAddTenure(t *testing.T) {
	cfg := Default()

	out, e := AddTenure(cfg)(claims(t))
	require.Nil(t, e)

	tenure := floats(t, out, ColTenure)
	assert.InDelta(t, 1826/TenureDaysPerYear, tenure[0], 1e-12)
	// termination before commencement
	assert.Equal(t, 0.0, tenure[1])
	assert.InDelta(t, 365/TenureDaysPerYear, tenure[2], 1e-12)
	// unparseable commencement
	assert.Equal(t, -1.0, tenure[3])
	// missing termination
	assert.Equal(t, -1.0, tenure[5])

	for _, x := range tenure {
		assert.True(t, x >= 0 || x == -1)
	}

	df := newDF(t, newCol(t, ColTermination, []string{"2020-01-01"}, d.DTstring))
	_, e = AddTenure(cfg)(df)
	assert.NotNil(t, e)
}

func TestEnrichWages(t *testing.T) {
	cfg := Default()
	core, logs := observer.New(zapcore.WarnLevel)

	out, e := EnrichWages(cfg, reference(t), zap.New(core))(claims(t))
	require.Nil(t, e)

	assert.False(t, out.HasColumns(ColBenchmark))
	assert.Equal(t, 6, out.RowCount())

	warned := logs.FilterMessage("industries missing from reference table").All()
	require.Len(t, warned, 1)
	assert.Equal(t, []any{"Retail"}, warned[0].ContextMap()["industries"])

	// reference median is 1200
	bench := []float64{1500, 1200, 1000, 1500, 1000, 1200}
	wage := []float64{1000, 3000, 800, math.NaN(), 900, 700}

	ratio := floats(t, out, ColWageRatio)
	flag := floats(t, out, ColHighDeviation)
	for row := range ratio {
		if math.IsNaN(wage[row]) {
			assert.True(t, math.IsNaN(ratio[row]))
			assert.Equal(t, 0.0, flag[row])
			continue
		}

		assert.InDelta(t, wage[row]/(bench[row]+WageEpsilon), ratio[row], 1e-12)
		want := 0.0
		if ratio[row] > DeviationRatio {
			want = 1
		}
		assert.Equal(t, want, flag[row], row)
	}

	// Retail: 3000/1200 = 2.5
	assert.Equal(t, 1.0, flag[1])
}

func TestEnrichWagesNoIndustry(t *testing.T) {
	cfg := Default()
	df := newDF(t, newCol(t, ColWeeklyWage, []float64{1, 2}, d.DTfloat))

	out, e := EnrichWages(cfg, nil, zap.NewNop())(df)
	require.Nil(t, e)
	assert.Equal(t, []string{ColWeeklyWage}, out.ColumnNames())

	df = newDF(t, newCol(t, ColIndustry, []string{"Mining"}, d.DTstring))
	_, e = EnrichWages(cfg, reference(t), zap.NewNop())(df)
	assert.NotNil(t, e)
}

func TestDropLeakage(t *testing.T) {
	cfg := Default()

	out, e := DropLeakage(cfg)(claims(t))
	require.Nil(t, e)

	assert.Nil(t, leaked(cfg, out))
	assert.Equal(t, []string{ColAnnualLeave, ColLongService, ColWages, ColWeeklyWage, ColIndustry, ColDelay, "Employer Size"},
		out.ColumnNames())
}

func TestWinsorizeDelay(t *testing.T) {
	cfg := Default()

	x := make([]any, 0, 103)
	for ind := 1; ind <= 100; ind++ {
		x = append(x, float64(ind))
	}
	x = append(x, -1.0, nil, 1000.0)

	df := newDF(t, newCol(t, ColDelay, x, d.DTfloat))
	out, e := WinsorizeDelay(cfg)(df)
	require.Nil(t, e)

	// the negative and the missing rows are dropped
	assert.Equal(t, 101, out.RowCount())

	delay := floats(t, out, ColDelay)
	// sorted values are 1..100, 1000; the 0.99 quantile is at position 99 -> 100
	assert.Equal(t, 100.0, delay[100])
	assert.Equal(t, 100.0, delay[99])
	assert.Equal(t, 1.0, delay[0])

	df = newDF(t, newCol(t, "other", []float64{-1}, d.DTfloat))
	out, e = WinsorizeDelay(cfg)(df)
	require.Nil(t, e)
	assert.Equal(t, 1, out.RowCount())
}

func TestWinsorizeDelayInts(t *testing.T) {
	cfg := Default()
	cfg.WinsorQuantile = 0.5

	df := newDF(t, newCol(t, ColDelay, []int{4, 1, -3, 2, 10}, d.DTint))
	out, e := WinsorizeDelay(cfg)(df)
	require.Nil(t, e)
	assert.Equal(t, []float64{3, 1, 2, 3}, floats(t, out, ColDelay))
}

func TestImpute(t *testing.T) {
	cfg := Default()

	df := newDF(t,
		newCol(t, "wage", []any{100.0, nil, 300.0, 200.0}, d.DTfloat),
		newCol(t, "size", []any{"Small", "Large", nil, "Large"}, d.DTstring),
		newCol(t, "blank", []any{nil, nil, nil, nil}, d.DTstring),
		newCol(t, "empty", []any{nil, nil, nil, nil}, d.DTfloat),
		newCol(t, "full", []int{1, 2, 3, 4}, d.DTint),
	)

	out, e := Impute(cfg)(df)
	require.Nil(t, e)

	assert.Equal(t, []string{"wage", "size", "blank", "empty", "full",
		"wage_missing", "size_missing", "blank_missing", "empty_missing"}, out.ColumnNames())
	assert.Nil(t, out.MissingColumns())

	assert.Equal(t, []float64{100, 200, 300, 200}, floats(t, out, "wage"))
	assert.Equal(t, []float64{0, 1, 0, 0}, floats(t, out, "wage_missing"))

	size, _ := out.Col("size")
	assert.Equal(t, "Large", size.Element(2))
	assert.Equal(t, []float64{0, 0, 1, 0}, floats(t, out, "size_missing"))

	blank, _ := out.Col("blank")
	assert.Equal(t, d.DTstring, blank.DataType())
	assert.Equal(t, UnknownCategory, blank.Element(0))

	assert.Equal(t, []float64{0, 0, 0, 0}, floats(t, out, "empty"))
	assert.Equal(t, []float64{1, 1, 1, 1}, floats(t, out, "empty_missing"))

	// the input still has its gaps
	assert.Equal(t, []string{"wage", "size", "blank", "empty"}, df.MissingColumns())
}

func TestTrimTargets(t *testing.T) {
	cfg := Default()

	// 41 values: 0, 0.1 twice, 0.5 x 35, 0.9 twice, 1. The 0.025 and 0.975 quantiles fall on
	// the second and the second to last values: 0.1 and 0.9.
	x := []any{0.0, 0.1, 0.1}
	for ind := 0; ind < 35; ind++ {
		x = append(x, 0.5)
	}
	x = append(x, 0.9, 0.9, 1.0, nil)

	id := make([]int, len(x))
	for ind := range id {
		id[ind] = ind
	}

	df := newDF(t, newCol(t, ColWages, x, d.DTfloat), newCol(t, "id", id, d.DTint))
	out, e := TrimTargets(cfg)(df)
	require.Nil(t, e)

	// the 0, the 1 and the missing row go; rows on either bound stay
	assert.Equal(t, 39, out.RowCount())
	assert.Equal(t, 42, df.RowCount())

	ids := floats(t, out, "id")
	assert.Equal(t, 1.0, ids[0])
	assert.Equal(t, 39.0, ids[len(ids)-1])

	wages := floats(t, out, ColWages)
	assert.Equal(t, 0.1, wages[0])
	assert.Equal(t, 0.9, wages[len(wages)-1])

	str := newDF(t, newCol(t, ColWages, []string{"0.5"}, d.DTstring))
	_, e = TrimTargets(cfg)(str)
	assert.NotNil(t, e)
}

func TestTrimTargetsSequential(t *testing.T) {
	cfg := Default()
	cfg.TrimLower, cfg.TrimUpper = 0.25, 1

	// after the first target drops its bottom row, the second target's lower bound is
	// taken over the three rows left
	df := newDF(t,
		newCol(t, ColAnnualLeave, []float64{0.1, 0.5, 0.6, 0.7}, d.DTfloat),
		newCol(t, ColWages, []float64{0, 0.2, 0.4, 0.8}, d.DTfloat))

	out, e := TrimTargets(cfg)(df)
	require.Nil(t, e)
	// annual leave: lower = 0.1 + 0.75*0.4 = 0.4, drops row 0
	// wages over 0.2, 0.4, 0.8: lower = 0.2 + 0.5*0.2 = 0.3, drops 0.2
	assert.Equal(t, []float64{0.4, 0.8}, floats(t, out, ColWages))
}
