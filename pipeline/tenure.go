package pipeline

import (
	"math"
	"time"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
)

// AddTenure derives tenure in years from the commencement and termination dates. A negative tenure
// is 0; a tenure with either date missing or unparseable is cfg.TenureUnknown.
func AddTenure(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		var (
			start, end []time.Time
			e          error
		)
		if start, e = dates(df, cfg.Commencement); e != nil {
			return nil, e
		}

		if end, e = dates(df, cfg.Termination); e != nil {
			return nil, e
		}

		tenure := make([]float64, len(start))
		for ind := range tenure {
			if start[ind].IsZero() || end[ind].IsZero() {
				tenure[ind] = cfg.TenureUnknown
				continue
			}

			days := math.Floor(end[ind].Sub(start[ind]).Hours() / 24)
			tenure[ind] = math.Max(days/cfg.TenureDaysPerYear, 0)
		}

		var col *m.Col
		if col, e = m.NewCol(tenure, d.DTfloat, d.ColName(cfg.Tenure), d.ColSource("tenure")); e != nil {
			return nil, e
		}

		return df.With(col)
	}
}

// dates parses the named column permissively. Missing and unparseable elements are the zero time.
func dates(df *m.DF, colName string) ([]time.Time, error) {
	var (
		col *m.Col
		e   error
	)
	if col, e = df.Col(colName); e != nil {
		return nil, e
	}

	out := make([]time.Time, col.Len())
	for ind := range out {
		x := col.Element(ind)
		if x == nil {
			continue
		}

		if dt, ok := d.ToDate(x); ok {
			out[ind] = dt.(time.Time)
		}
	}

	return out, nil
}
