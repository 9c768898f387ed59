package mem

import (
	"fmt"

	d "github.com/invertedv/claimsprep/df"
)

// LeftJoin joins right onto f on column on, in f's row order. cols are the right columns to bring over;
// if none are given, every right column except on is used. Rows of f with no match get missing values.
// A right key that appears more than once repeats the left row. Missing keys never match.
func (f *DF) LeftJoin(right *DF, on string, cols ...string) (*DF, error) {
	var (
		lKey, rKey *Col
		e          error
	)
	if lKey, e = f.Col(on); e != nil {
		return nil, fmt.Errorf("left side of join: %w", e)
	}

	if rKey, e = right.Col(on); e != nil {
		return nil, fmt.Errorf("right side of join: %w", e)
	}

	if cols == nil {
		for _, cn := range right.ColumnNames() {
			if cn != on {
				cols = append(cols, cn)
			}
		}
	}

	for _, cn := range cols {
		if cn == on {
			return nil, fmt.Errorf("join column %s cannot also be brought over", on)
		}

		if f.HasColumns(cn) {
			return nil, fmt.Errorf("column %s is on both sides of join", cn)
		}

		if !right.HasColumns(cn) {
			return nil, fmt.Errorf("right side of join has no column %s", cn)
		}
	}

	// keys compare as strings so that, e.g., an int key joins a float key of the same value
	index := make(map[string][]int)
	for row := 0; row < rKey.Len(); row++ {
		if rKey.IsMissing(row) {
			continue
		}

		k := rKey.ElementString(row)
		index[k] = append(index[k], row)
	}

	var lRows, rRows []int
	for row := 0; row < lKey.Len(); row++ {
		matches := index[lKey.ElementString(row)]
		if lKey.IsMissing(row) || matches == nil {
			lRows, rRows = append(lRows, row), append(rRows, -1)
			continue
		}

		for _, m := range matches {
			lRows, rRows = append(lRows, row), append(rRows, m)
		}
	}

	var outCols []*Col
	for _, c := range f.Cols() {
		outCols = append(outCols, c.Take(lRows))
	}

	for _, cn := range cols {
		rc, _ := right.Col(cn)
		outCols = append(outCols, rc.Take(rRows))
	}

	return NewDFcol(outCols...)
}

// Unmatched returns the distinct non-missing values of f's column on that have no match in right.
func (f *DF) Unmatched(right *DF, on string) ([]string, error) {
	var (
		lKey, rKey *Col
		e          error
	)
	if lKey, e = f.Col(on); e != nil {
		return nil, e
	}

	if rKey, e = right.Col(on); e != nil {
		return nil, e
	}

	have := make(map[string]bool)
	for row := 0; row < rKey.Len(); row++ {
		if !rKey.IsMissing(row) {
			have[rKey.ElementString(row)] = true
		}
	}

	var out []string
	for _, u := range lKey.Unique() {
		s, _ := d.ToString(u)
		if !have[s.(string)] && !d.Has(s.(string), out) {
			out = append(out, s.(string))
		}
	}

	return out, nil
}
