package pipeline

import (
	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
)

// Impute fills every column that has missing values. Each such column first gets a 0/1 indicator column
// named with cfg.MissingSuffix. Numeric columns are filled with their median, others with their mode.
// A non-numeric column with no values becomes a string column of cfg.UnknownCategory; a numeric column
// with no values is filled with 0.
func Impute(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		toFill := df.MissingColumns()

		outDF := df.Shallow()
		for _, cn := range toFill {
			var (
				col *m.Col
				e   error
			)
			if col, e = outDF.Col(cn); e != nil {
				return nil, e
			}

			var ind *m.Col
			if ind, e = col.MissingIndicator(cn + cfg.MissingSuffix); e != nil {
				return nil, e
			}

			var filled *m.Col
			if filled, e = fill(cfg, col); e != nil {
				return nil, e
			}

			if outDF, e = outDF.With(ind, filled); e != nil {
				return nil, e
			}
		}

		return outDF, nil
	}
}

func fill(cfg *Config, col *m.Col) (*m.Col, error) {
	if col.DataType().IsNumeric() {
		med, ok := col.Median()
		if !ok {
			med = 0
		}

		return col.Coerce(d.DTfloat).Fill(med)
	}

	mode, ok := col.Mode()
	if !ok {
		return col.Coerce(d.DTstring).Fill(cfg.UnknownCategory)
	}

	return col.Fill(mode)
}
