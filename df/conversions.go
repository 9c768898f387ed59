package df

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order by ToDate. Month-first formats come before day-first ones.
var dateFormats = []string{"2006-01-02", "2006-1-2", "2006/01/02", "2006/1/2", "20060102",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "Jan 2, 2006", "January 2, 2006",
	"Jan 2 2006", "January 2 2006", "2-Jan-2006", "02-Jan-06",
	"2006-01-02 15:04:05", "2006-01-02T15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05", time.RFC3339}

// missingTokens are field values read as missing.
var missingTokens = []string{"", "na", "n/a", "nan", "null", "none", "#n/a", "<na>", "nat"}

// IsMissingToken returns true if the string is one of the conventional spellings of "no value".
func IsMissingToken(s string) bool {
	return Has(strings.ToLower(strings.TrimSpace(s)), missingTokens)
}

// *********** Conversions ***********

func ToFloat(x any) (any, bool) {
	if f, ok := x.(float64); ok {
		if math.IsNaN(f) {
			return nil, false
		}

		return f, true
	}

	if s, ok := x.(string); ok {
		if f, e := strconv.ParseFloat(strings.TrimSpace(s), 64); e == nil && !math.IsNaN(f) {
			return f, true
		}

		return nil, false
	}

	xv := reflect.ValueOf(x)
	if !xv.IsValid() {
		return nil, false
	}

	if xv.CanFloat() {
		return xv.Float(), true
	}

	if xv.CanInt() {
		return float64(xv.Int()), true
	}

	if xv.CanUint() {
		return float64(xv.Uint()), true
	}

	return nil, false
}

func ToInt(x any) (any, bool) {
	if i, ok := x.(int); ok {
		return i, true
	}

	if s, ok := x.(string); ok {
		if i, e := strconv.ParseInt(strings.TrimSpace(s), 10, 64); e == nil {
			return int(i), true
		}

		return nil, false
	}

	xv := reflect.ValueOf(x)
	if !xv.IsValid() {
		return nil, false
	}

	if xv.CanInt() {
		return int(xv.Int()), true
	}

	if xv.CanUint() {
		return int(xv.Uint()), true
	}

	if xv.CanFloat() {
		f := xv.Float()
		if math.IsNaN(f) || f != math.Trunc(f) {
			return nil, false
		}

		return int(f), true
	}

	return nil, false
}

func ToString(x any) (any, bool) {
	switch v := x.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case time.Time:
		return v.Format("2006-01-02"), true
	}

	return nil, false
}

// ToDate converts x to a date. Unparseable strings return false rather than an error so callers can
// treat them as missing.
func ToDate(x any) (any, bool) {
	if d, ok := x.(time.Time); ok {
		return d, true
	}

	if d, ok := x.(string); ok {
		d = strings.TrimSpace(strings.ReplaceAll(d, "'", ""))
		for _, fmtx := range dateFormats {
			if dt, e := time.Parse(fmtx, d); e == nil {
				return dt, true
			}
		}

		return nil, false
	}

	xv := reflect.ValueOf(x)
	if !xv.IsValid() {
		return nil, false
	}

	if xv.CanInt() {
		return ToDate(strconv.FormatInt(xv.Int(), 10))
	}

	if xv.CanUint() {
		return ToDate(strconv.FormatUint(xv.Uint(), 10))
	}

	return nil, false
}

// ParsePercent reads a fraction from a number or a percentage string: "85%" is 0.85, "0.85" is 0.85.
func ParsePercent(x any) (float64, bool) {
	s, ok := x.(string)
	if !ok {
		if f, okf := ToFloat(x); okf {
			return f.(float64), true
		}

		return 0, false
	}

	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	var (
		v   any
		ok1 bool
	)
	if v, ok1 = ToFloat(s); !ok1 {
		return 0, false
	}

	f := v.(float64)
	if pct {
		f /= 100
	}

	return f, true
}

func ToDataType(x any, dt DataTypes) (any, bool) {
	switch dt {
	case DTfloat:
		return ToFloat(x)
	case DTint:
		return ToInt(x)
	case DTdate:
		return ToDate(x)
	case DTstring:
		return ToString(x)
	case DTany:
		return x, true
	}

	return nil, false
}

func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	case time.Time, []time.Time:
		return DTdate
	default:
		return DTunknown
	}
}
