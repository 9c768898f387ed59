package mem

import (
	"fmt"
	"math"
	"strings"

	d "github.com/invertedv/claimsprep/df"
)

// prettyPrint lays out the vectors as columns under header. Numeric columns are right-justified.
func prettyPrint(header []string, cols ...*d.Vector) string {
	if len(cols) == 0 {
		return ""
	}

	var colsS [][]string
	for ind := 0; ind < len(cols); ind++ {
		colsS = append(colsS, stringSlice(header[ind], cols[ind]))
	}

	var sb strings.Builder
	for row := 0; row < len(colsS[0]); row++ {
		for c := 0; c < len(colsS); c++ {
			sb.WriteString(colsS[c][row])
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func stringSlice(header string, v *d.Vector) []string {
	const (
		pad     = 3
		missing = "NA"
	)

	c := []string{header}

	format := "%d"
	if v.VectorType() == d.DTfloat {
		x, _ := v.AsFloat()
		format = selectFormat(x)
	}

	maxLen := len(header)
	for ind := 0; ind < v.Len(); ind++ {
		var el string
		switch x := v.Element(ind); {
		case x == nil:
			el = missing
		case v.VectorType() == d.DTfloat, v.VectorType() == d.DTint:
			el = fmt.Sprintf(format, x)
		default:
			el = v.ElementString(ind)
		}

		if l := len(el); l > maxLen {
			maxLen = l
		}

		c = append(c, el)
	}

	// every cell starts with the gap so adjacent columns never touch
	numeric := v.VectorType().IsNumeric()
	gap := strings.Repeat(" ", pad)
	for ind, cx := range c {
		fill := strings.Repeat(" ", maxLen-len(cx))
		if numeric {
			c[ind] = gap + fill + cx
			continue
		}

		c[ind] = gap + cx + fill
	}

	return c
}

// selectFormat picks the decimal places from the range of the non-NaN values of x.
func selectFormat(x []float64) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, xv := range x {
		if math.IsNaN(xv) || math.IsInf(xv, 0) {
			continue
		}

		xva := math.Abs(xv)
		minX, maxX = math.Min(minX, xva), math.Max(maxX, xva)
	}

	if minX > maxX {
		return "%.2f"
	}

	l := math.Log10(maxX - minX)
	var dp int
	switch {
	case math.IsInf(l, -1):
		dp = 2
	case l < -1:
		dp = int(math.Abs(l)+0.5) + 1
	case l > 1:
		dp = 0
	default:
		dp = 2
	}

	return "%." + fmt.Sprintf("%d", dp) + "f"
}
