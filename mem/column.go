package mem

import (
	"fmt"
	"math"

	d "github.com/invertedv/claimsprep/df"
)

type Col struct {
	*d.Vector

	*d.ColCore
}

// ***************** Col - Create *****************

// NewCol builds a column from a *d.Vector or a slice that converts to dt.
func NewCol(data any, dt d.DataTypes, opts ...d.ColOpt) (*Col, error) {
	var (
		v *d.Vector
		e error
	)
	if v, e = d.NewVector(data, dt); e != nil {
		return nil, e
	}

	var cc *d.ColCore
	if cc, e = d.NewColCore(v.VectorType()); e != nil {
		return nil, e
	}

	col := &Col{
		Vector:  v,
		ColCore: cc,
	}

	for _, opt := range opts {
		if ex := opt(col); ex != nil {
			return nil, ex
		}
	}

	return col, nil
}

// ***************** Col - Methods *****************

func (c *Col) Copy() d.Column {
	col := &Col{
		Vector:  c.Data().Copy(),
		ColCore: c.Core().Copy(),
	}

	return col
}

// Core resolves the ambiguity between the embedded types.
func (c *Col) Core() *d.ColCore {
	return c.ColCore
}

func (c *Col) DataType() d.DataTypes {
	return c.Vector.VectorType()
}

func (c *Col) String() string {
	t := fmt.Sprintf("column: %s\ntype: %s\nmissing: %d\n", c.Name(), c.DataType(), c.MissingCount())

	if !c.DataType().IsNumeric() {
		var (
			mode any
			ok   bool
		)
		if mode, ok = c.Mode(); !ok {
			return t + "no values\n"
		}

		s, _ := d.ToString(mode)
		return t + fmt.Sprintf("distinct: %d\nmode: %s\n", len(c.Unique()), s.(string))
	}

	sum := summarize(c.Vector)
	header := []string{"metric", "value"}

	return t + prettyPrint(header, stringVec(sum.labels()), floatVec(sum.values()))
}

// withData returns a new column with the same name and source holding v.
func (c *Col) withData(v *d.Vector, source string) *Col {
	cc := c.Core().Copy()
	_ = d.ColDataType(v.VectorType())(cc)
	if source != "" {
		_ = d.ColSource(source)(cc)
	}

	return &Col{Vector: v, ColCore: cc}
}

func floatVec(x []float64) *d.Vector {
	v, _ := d.NewVector(x, d.DTfloat)
	return v
}

func stringVec(x []string) *d.Vector {
	v, _ := d.NewVector(x, d.DTstring)
	return v
}

// Floats returns a copy of the column as floats, NaN for missing elements.
func (c *Col) Floats() ([]float64, error) {
	var (
		x []float64
		e error
	)
	if x, e = c.AsFloat(); e != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name(), e)
	}

	out := make([]float64, len(x))
	copy(out, x)
	for ind := range out {
		if c.IsMissing(ind) {
			out[ind] = math.NaN()
		}
	}

	return out, nil
}
