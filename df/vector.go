package df

import (
	"fmt"
	"math"
	"time"
)

// Vector is a typed slice with an optional missing mask. missing is nil when no element is missing.
// Missing float elements also hold NaN.
type Vector struct {
	dt DataTypes

	data    any
	missing []bool
}

// NewVector creates a Vector of type dt from data. data may be a slice of any type that converts
// element-wise to dt; nil elements are missing.
func NewVector(data any, dt DataTypes) (*Vector, error) {
	if v, ok := data.(*Vector); ok {
		if v.VectorType() != dt {
			return nil, fmt.Errorf("vector is %v, not %v", v.VectorType(), dt)
		}

		return v, nil
	}

	switch x := data.(type) {
	case []float64:
		if dt == DTfloat {
			v := &Vector{dt: dt, data: x}
			for ind, f := range x {
				if math.IsNaN(f) {
					v.setMissing(ind, true)
				}
			}

			return v, nil
		}
	case []int:
		if dt == DTint {
			return &Vector{dt: dt, data: x}, nil
		}
	case []string:
		if dt == DTstring {
			return &Vector{dt: dt, data: x}, nil
		}
	case []time.Time:
		if dt == DTdate {
			return &Vector{dt: dt, data: x}, nil
		}
	}

	var (
		vals []any
		e    error
	)
	if vals, e = toAnySlice(data); e != nil {
		return nil, e
	}

	v := MakeVector(dt, len(vals))
	for ind, val := range vals {
		if val == nil {
			v.SetMissing(ind)
			continue
		}

		x, ok := ToDataType(val, dt)
		if !ok {
			return nil, fmt.Errorf("cannot convert %v to %v in NewVector", val, dt)
		}

		if ex := v.SetAny(x, ind); ex != nil {
			return nil, ex
		}
	}

	return v, nil
}

// MakeVector returns a Vector of length n with zero values.
func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	case DTdate:
		return &Vector{dt: dt, data: make([]time.Time, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

// MissingVector returns a Vector of length n where every element is missing.
func MissingVector(dt DataTypes, n int) *Vector {
	v := MakeVector(dt, n)
	for ind := 0; ind < n; ind++ {
		v.SetMissing(ind)
	}

	return v
}

func toAnySlice(data any) ([]any, error) {
	switch x := data.(type) {
	case []any:
		return x, nil
	case []float64:
		out := make([]any, len(x))
		for ind, f := range x {
			if !math.IsNaN(f) {
				out[ind] = f
			}
		}
		return out, nil
	case []int:
		out := make([]any, len(x))
		for ind, i := range x {
			out[ind] = i
		}
		return out, nil
	case []string:
		out := make([]any, len(x))
		for ind, s := range x {
			out[ind] = s
		}
		return out, nil
	case []time.Time:
		out := make([]any, len(x))
		for ind, d := range x {
			out[ind] = d
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported data type %T in NewVector", data)
}

// *********** Accessors ***********

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) Data() *Vector {
	return v
}

// AsAny returns the underlying slice.
func (v *Vector) AsAny() any {
	return v.data
}

// AsFloat returns the data as []float64 with missing elements as NaN. The slice is shared for DTfloat.
func (v *Vector) AsFloat() ([]float64, error) {
	if v.VectorType() == DTfloat {
		return v.data.([]float64), nil
	}

	if v.VectorType() == DTint {
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]int) {
			xOut[ind] = float64(xx)
			if v.IsMissing(ind) {
				xOut[ind] = math.NaN()
			}
		}

		return xOut, nil
	}

	return nil, fmt.Errorf("cannot convert %v to Vector.AsFloat", v.VectorType())
}

func (v *Vector) AsInt() ([]int, error) {
	if v.VectorType() == DTint {
		return v.data.([]int), nil
	}

	return nil, fmt.Errorf("cannot convert %v to Vector.AsInt", v.VectorType())
}

func (v *Vector) AsDate() ([]time.Time, error) {
	if v.dt == DTdate {
		return v.data.([]time.Time), nil
	}

	return nil, fmt.Errorf("cannot convert %v to Vector.AsDate", v.VectorType())
}

// Element returns the indx element, nil if it is missing.
func (v *Vector) Element(indx int) any {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	if v.IsMissing(indx) {
		return nil
	}

	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTint:
		return v.data.([]int)[indx]
	case DTstring:
		return v.data.([]string)[indx]
	case DTdate:
		return v.data.([]time.Time)[indx]
	default:
		panic(fmt.Errorf("error in Element"))
	}
}

// ElementFloat returns the indx element as a float, NaN if missing or non-numeric.
func (v *Vector) ElementFloat(indx int) float64 {
	x := v.Element(indx)
	if x == nil {
		return math.NaN()
	}

	if f, ok := ToFloat(x); ok {
		return f.(float64)
	}

	return math.NaN()
}

// ElementString returns the indx element as a string, "" if missing.
func (v *Vector) ElementString(indx int) string {
	x := v.Element(indx)
	if x == nil {
		return ""
	}

	s, _ := ToString(x)
	return s.(string)
}

func (v *Vector) Len() int {
	switch v.dt {
	case DTfloat:
		return len(v.data.([]float64))
	case DTint:
		return len(v.data.([]int))
	case DTstring:
		return len(v.data.([]string))
	case DTdate:
		return len(v.data.([]time.Time))
	default:
		panic(fmt.Errorf("unexpected error in Vector.Len"))
	}
}

// *********** Missing values ***********

func (v *Vector) IsMissing(indx int) bool {
	return v.missing != nil && v.missing[indx]
}

// MissingCount is the number of missing elements.
func (v *Vector) MissingCount() int {
	n := 0
	for _, m := range v.missing {
		if m {
			n++
		}
	}

	return n
}

func (v *Vector) HasMissing() bool {
	return v.MissingCount() > 0
}

func (v *Vector) SetMissing(indx int) {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	if v.dt == DTfloat {
		v.data.([]float64)[indx] = math.NaN()
	}

	v.setMissing(indx, true)
}

func (v *Vector) setMissing(indx int, val bool) {
	if v.missing == nil {
		if !val {
			return
		}

		v.missing = make([]bool, v.Len())
	}

	v.missing[indx] = val
}

// *********** Setters ***********

func (v *Vector) SetFloat(val float64, indx int) error {
	if v.VectorType() != DTfloat {
		return fmt.Errorf("vector isn't DTfloat")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]float64)[indx] = val
	v.setMissing(indx, math.IsNaN(val))

	return nil
}

func (v *Vector) SetInt(val, indx int) error {
	if v.VectorType() != DTint {
		return fmt.Errorf("vector isn't DTint")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]int)[indx] = val
	v.setMissing(indx, false)

	return nil
}

func (v *Vector) SetString(val string, indx int) error {
	if v.VectorType() != DTstring {
		return fmt.Errorf("vector isn't DTstring")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]string)[indx] = val
	v.setMissing(indx, false)

	return nil
}

func (v *Vector) SetDate(val time.Time, indx int) error {
	if v.VectorType() != DTdate {
		return fmt.Errorf("vector isn't DTdate")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]time.Time)[indx] = val
	v.setMissing(indx, false)

	return nil
}

// SetAny sets element indx to val, which must already be of the vector's type. nil sets missing.
func (v *Vector) SetAny(val any, indx int) error {
	if val == nil {
		v.SetMissing(indx)
		return nil
	}

	switch x := val.(type) {
	case float64:
		return v.SetFloat(x, indx)
	case int:
		return v.SetInt(x, indx)
	case string:
		return v.SetString(x, indx)
	case time.Time:
		return v.SetDate(x, indx)
	}

	return fmt.Errorf("unsupported type %T in Vector.SetAny", val)
}

// *********** Building ***********

func (v *Vector) AppendVector(vAdd *Vector) error {
	if v.VectorType() != vAdd.VectorType() {
		return fmt.Errorf("appending different vector types")
	}

	n := v.Len()
	switch v.dt {
	case DTfloat:
		v.data = append(v.data.([]float64), vAdd.data.([]float64)...)
	case DTint:
		v.data = append(v.data.([]int), vAdd.data.([]int)...)
	case DTstring:
		v.data = append(v.data.([]string), vAdd.data.([]string)...)
	case DTdate:
		v.data = append(v.data.([]time.Time), vAdd.data.([]time.Time)...)
	default:
		return fmt.Errorf("unknown type in Vector.Append")
	}

	if v.missing == nil && vAdd.missing == nil {
		return nil
	}

	if v.missing == nil {
		v.missing = make([]bool, n)
	}

	for ind := 0; ind < vAdd.Len(); ind++ {
		v.missing = append(v.missing, vAdd.IsMissing(ind))
	}

	return nil
}

// Append converts and appends each of data. nil appends a missing element.
func (v *Vector) Append(data ...any) error {
	for ind := 0; ind < len(data); ind++ {
		add := MakeVector(v.dt, 1)
		if data[ind] == nil {
			add.SetMissing(0)
		} else {
			x, ok := ToDataType(data[ind], v.dt)
			if !ok {
				return fmt.Errorf("cannot make %v from %v in Append", v.dt, data[ind])
			}

			if e := add.SetAny(x, 0); e != nil {
				return e
			}
		}

		if e := v.AppendVector(add); e != nil {
			return e
		}
	}

	return nil
}

func (v *Vector) Copy() *Vector {
	vCopy := &Vector{dt: v.dt}
	switch v.dt {
	case DTfloat:
		x := make([]float64, v.Len())
		copy(x, v.data.([]float64))
		vCopy.data = x
	case DTint:
		x := make([]int, v.Len())
		copy(x, v.data.([]int))
		vCopy.data = x
	case DTstring:
		x := make([]string, v.Len())
		copy(x, v.data.([]string))
		vCopy.data = x
	case DTdate:
		x := make([]time.Time, v.Len())
		copy(x, v.data.([]time.Time))
		vCopy.data = x
	default:
		panic(fmt.Errorf("unexpected error in Vector.Copy"))
	}

	if v.missing != nil {
		vCopy.missing = make([]bool, len(v.missing))
		copy(vCopy.missing, v.missing)
	}

	return vCopy
}

// Where returns the elements for which keep is true.
func (v *Vector) Where(keep []bool) (*Vector, error) {
	if len(keep) != v.Len() {
		return nil, fmt.Errorf("where length %d, vector length %d", len(keep), v.Len())
	}

	var rows []int
	for ind, k := range keep {
		if k {
			rows = append(rows, ind)
		}
	}

	return v.Take(rows), nil
}

// Take returns the elements at rows, in that order. A negative row gives a missing element.
func (v *Vector) Take(rows []int) *Vector {
	outVec := MakeVector(v.VectorType(), len(rows))
	for ind, r := range rows {
		if r < 0 || v.IsMissing(r) {
			outVec.SetMissing(ind)
			continue
		}

		_ = outVec.SetAny(v.Element(r), ind)
	}

	return outVec
}

// Coerce converts the vector to type to. Elements that do not convert become missing.
func (v *Vector) Coerce(to DataTypes) *Vector {
	xOut := MakeVector(to, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		vIn := v.Element(ind)
		if vIn == nil {
			xOut.SetMissing(ind)
			continue
		}

		vOut, ok := ToDataType(vIn, to)
		if !ok {
			xOut.SetMissing(ind)
			continue
		}

		_ = xOut.SetAny(vOut, ind)
	}

	return xOut
}
