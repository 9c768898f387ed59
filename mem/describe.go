package mem

import (
	"fmt"

	d "github.com/invertedv/claimsprep/df"
)

// Describe returns a table of summary statistics with a "statistic" column and one column for
// each numeric column in cols. With no cols, every numeric column is described.
func Describe(f *DF, cols ...string) (*DF, error) {
	if cols == nil {
		for _, c := range f.Cols() {
			if c.DataType().IsNumeric() {
				cols = append(cols, c.Name())
			}
		}
	}

	if cols == nil {
		return nil, fmt.Errorf("no numeric columns to describe")
	}

	var (
		stat *Col
		e    error
	)
	if stat, e = NewCol((&summary{}).labels(), d.DTstring, d.ColName("statistic")); e != nil {
		return nil, e
	}

	outCols := []*Col{stat}
	for _, cn := range cols {
		var c *Col
		if c, e = f.Col(cn); e != nil {
			return nil, e
		}

		if !c.DataType().IsNumeric() {
			return nil, fmt.Errorf("column %s is %s, not numeric", cn, c.DataType())
		}

		var sc *Col
		if sc, e = NewCol(summarize(c.Vector).values(), d.DTfloat, d.ColName(cn), d.ColSource("describe")); e != nil {
			return nil, e
		}

		outCols = append(outCols, sc)
	}

	return NewDFcol(outCols...)
}
