package pipeline

import (
	"fmt"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
	"go.uber.org/zap"
)

// EnrichWages joins the industry wage benchmark in ref onto the claims and derives the wage ratio and
// the high deviation flag. Industries with no benchmark are logged and get the median benchmark of ref.
// The stage does nothing if the claims have no industry column.
func EnrichWages(cfg *Config, ref *m.DF, logger *zap.Logger) Stage {
	return enrichWages(cfg, ref, logger, nil)
}

// enrichWages is EnrichWages; if onUnmatched is not nil it receives the industries without a benchmark.
func enrichWages(cfg *Config, ref *m.DF, logger *zap.Logger, onUnmatched func(industries []string)) Stage {
	return func(df *m.DF) (*m.DF, error) {
		if !df.HasColumns(cfg.Industry) {
			logger.Info("no industry column, skipping wage enrichment", zap.String("column", cfg.Industry))
			return df, nil
		}

		if ref == nil {
			return nil, fmt.Errorf("no reference wage table")
		}

		var (
			bench *m.Col
			e     error
		)
		if bench, e = ref.Col(cfg.Benchmark); e != nil {
			return nil, fmt.Errorf("reference table: %w", e)
		}

		median, ok := bench.Median()
		if !ok {
			return nil, fmt.Errorf("reference column %s has no values", cfg.Benchmark)
		}

		var unmatched []string
		if unmatched, e = df.Unmatched(ref, cfg.Industry); e != nil {
			return nil, e
		}

		if onUnmatched != nil {
			onUnmatched(unmatched)
		}

		if len(unmatched) > 0 {
			logger.Warn("industries missing from reference table",
				zap.Strings("industries", unmatched), zap.Float64("fill", median))
		}

		var joined *m.DF
		if joined, e = df.LeftJoin(ref, cfg.Industry, cfg.Benchmark); e != nil {
			return nil, e
		}

		var benchCol *m.Col
		if benchCol, e = joined.Col(cfg.Benchmark); e != nil {
			return nil, e
		}

		if benchCol, e = benchCol.Coerce(d.DTfloat).Fill(median); e != nil {
			return nil, e
		}

		var wageCol *m.Col
		if wageCol, e = joined.Col(cfg.WeeklyWage); e != nil {
			return nil, e
		}

		var wage, benchmark []float64
		if wage, e = wageCol.Coerce(d.DTfloat).Floats(); e != nil {
			return nil, e
		}

		if benchmark, e = benchCol.Floats(); e != nil {
			return nil, e
		}

		ratio := make([]float64, len(wage))
		flag := make([]int, len(wage))
		for ind := range ratio {
			ratio[ind] = wage[ind] / (benchmark[ind] + cfg.WageEpsilon)
			// NaN > x is false so a missing ratio is not flagged
			if ratio[ind] > cfg.DeviationRatio {
				flag[ind] = 1
			}
		}

		var ratioCol, flagCol *m.Col
		if ratioCol, e = m.NewCol(ratio, d.DTfloat, d.ColName(cfg.WageRatio), d.ColSource("wage ratio")); e != nil {
			return nil, e
		}

		if flagCol, e = m.NewCol(flag, d.DTint, d.ColName(cfg.HighDeviation), d.ColSource("wage ratio")); e != nil {
			return nil, e
		}

		if joined, e = joined.With(ratioCol, flagCol); e != nil {
			return nil, e
		}

		return joined.Drop(cfg.Benchmark)
	}
}
