package mem

import (
	"fmt"
	"math"

	d "github.com/invertedv/claimsprep/df"
)

// ***************** Functions that take a column and return a column *****************
// None of these modify the receiver.

// Clip bounds a numeric column to [lower, upper]. Missing values stay missing. The result is DTfloat.
func (c *Col) Clip(lower, upper float64) (*Col, error) {
	if lower > upper {
		return nil, fmt.Errorf("clip bounds reversed: %v > %v", lower, upper)
	}

	var (
		x []float64
		e error
	)
	if x, e = c.Floats(); e != nil {
		return nil, e
	}

	for ind, xv := range x {
		if math.IsNaN(xv) {
			continue
		}

		x[ind] = math.Min(math.Max(xv, lower), upper)
	}

	return c.withData(floatVec(x), "clip"), nil
}

// Coerce converts the column to dt. Values that do not convert become missing.
func (c *Col) Coerce(dt d.DataTypes) *Col {
	if c.DataType() == dt {
		return c.withData(c.Vector.Copy(), "")
	}

	return c.withData(c.Vector.Coerce(dt), "coerce")
}

// Fill replaces missing values with val, which must convert to the column's type.
func (c *Col) Fill(val any) (*Col, error) {
	x, ok := d.ToDataType(val, c.DataType())
	if !ok || x == nil {
		return nil, fmt.Errorf("cannot fill %s column %s with %v", c.DataType(), c.Name(), val)
	}

	v := c.Vector.Copy()
	for ind := 0; ind < v.Len(); ind++ {
		if !v.IsMissing(ind) {
			continue
		}

		if e := v.SetAny(x, ind); e != nil {
			return nil, e
		}
	}

	return c.withData(v, "fill"), nil
}

// MissingIndicator returns a DTint column named name that is 1 where c is missing and 0 elsewhere.
func (c *Col) MissingIndicator(name string) (*Col, error) {
	ind := make([]int, c.Len())
	for row := 0; row < c.Len(); row++ {
		if c.IsMissing(row) {
			ind[row] = 1
		}
	}

	return NewCol(ind, d.DTint, d.ColName(name), d.ColSource("missing:"+c.Name()))
}

// Where returns the rows of c for which keep is true.
func (c *Col) Where(keep []bool) (*Col, error) {
	var (
		v *d.Vector
		e error
	)
	if v, e = c.Vector.Where(keep); e != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name(), e)
	}

	return c.withData(v, ""), nil
}

// Take returns the rows of c at rows; a negative row is missing.
func (c *Col) Take(rows []int) *Col {
	return c.withData(c.Vector.Take(rows), "")
}
