package pipeline

import (
	"fmt"
	"math"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
)

// SanitizeTargets clips each target present to [0,1] and then drops rows where it is missing.
// String targets are read as fractions, with a trailing "%" meaning percent.
func SanitizeTargets(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		outDF := df.Shallow()
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
				col = percentCol(col)
			}

			if col, e = col.Clip(0, 1); e != nil {
				return nil, fmt.Errorf("target %s: %w", target, e)
			}

			if outDF, e = outDF.With(col); e != nil {
				return nil, e
			}

			keep := make([]bool, col.Len())
			for ind := range keep {
				keep[ind] = !col.IsMissing(ind)
			}

			if outDF, e = outDF.Where(keep); e != nil {
				return nil, e
			}
		}

		return outDF, nil
	}
}

// percentCol converts a string column of fractions or percent strings to float. Values that do not
// parse are missing.
func percentCol(col *m.Col) *m.Col {
	x := make([]float64, col.Len())
	for ind := range x {
		x[ind] = math.NaN()
		if col.IsMissing(ind) {
			continue
		}

		if f, ok := d.ParsePercent(col.ElementString(ind)); ok {
			x[ind] = f
		}
	}

	outCol, _ := m.NewCol(x, d.DTfloat, d.ColName(col.Name()), d.ColSource("percent:"+col.Name()))

	return outCol
}
