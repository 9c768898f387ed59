package pipeline

import (
	"fmt"
	"math"

	m "github.com/invertedv/claimsprep/mem"
)

// TrimTargets keeps, for each target present in turn, the rows whose value lies within the
// [cfg.TrimLower, cfg.TrimUpper] quantiles of that target. Bounds are inclusive. Each target's
// quantiles are taken from the rows the previous targets left. A missing target is dropped.
func TrimTargets(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		outDF := df
		for _, target := range cfg.Targets {
			if !outDF.HasColumns(target) {
				continue
			}

			var (
				col *m.Col
				e   error
			)
			if col, e = outDF.Col(target); e != nil {
				return nil, e
			}

			if !col.DataType().IsNumeric() {
				return nil, fmt.Errorf("target %s is %s", target, col.DataType())
			}

			// with no values the bounds are NaN and every row goes
			lower, _ := col.Quantile(cfg.TrimLower)
			upper, _ := col.Quantile(cfg.TrimUpper)

			var x []float64
			if x, e = col.Floats(); e != nil {
				return nil, e
			}

			keep := make([]bool, len(x))
			for ind, xv := range x {
				keep[ind] = !math.IsNaN(xv) && xv >= lower && xv <= upper
			}

			if outDF, e = outDF.Where(keep); e != nil {
				return nil, e
			}
		}

		return outDF, nil
	}
}
