package pipeline

import (
	"fmt"
	"math"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
)

// WinsorizeDelay drops rows whose delay is negative or missing, then caps the delay at its
// cfg.WinsorQuantile quantile. There is no lower cap. The stage does nothing if the delay column is absent.
func WinsorizeDelay(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		if !df.HasColumns(cfg.Delay) {
			return df, nil
		}

		var (
			col *m.Col
			e   error
		)
		if col, e = df.Col(cfg.Delay); e != nil {
			return nil, e
		}

		if !col.DataType().IsNumeric() {
			col = col.Coerce(d.DTfloat)
		}

		var x []float64
		if x, e = col.Floats(); e != nil {
			return nil, e
		}

		keep := make([]bool, len(x))
		for ind, xv := range x {
			// NaN >= 0 is false
			keep[ind] = xv >= 0
		}

		var outDF *m.DF
		if outDF, e = df.With(col); e != nil {
			return nil, e
		}

		if outDF, e = outDF.Where(keep); e != nil {
			return nil, e
		}

		if col, e = outDF.Col(cfg.Delay); e != nil {
			return nil, e
		}

		upper, ok := col.Quantile(cfg.WinsorQuantile)
		if !ok {
			return outDF, nil
		}

		if col, e = col.Clip(math.Inf(-1), upper); e != nil {
			return nil, fmt.Errorf("winsorize %s: %w", cfg.Delay, e)
		}

		return outDF.With(col)
	}
}
