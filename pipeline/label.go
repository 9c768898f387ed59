package pipeline

import (
	"fmt"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
)

// LabelUnreliable adds cfg.Unreliable: 1 if any target present is below cfg.UnreliableThreshold, else 0.
// It is applied to the output of Run.
func LabelUnreliable(cfg *Config, df *m.DF) (*m.DF, error) {
	var targets []*m.Col
	for _, target := range cfg.Targets {
		if !df.HasColumns(target) {
			continue
		}

		col, _ := df.Col(target)
		if !col.DataType().IsNumeric() {
			return nil, fmt.Errorf("target %s is %s", target, col.DataType())
		}

		targets = append(targets, col)
	}

	if targets == nil {
		return nil, fmt.Errorf("no targets to label")
	}

	flag := make([]int, df.RowCount())
	for _, col := range targets {
		for row := range flag {
			// a missing target is NaN and is not counted as below the threshold
			if col.ElementFloat(row) < cfg.UnreliableThreshold {
				flag[row] = 1
			}
		}
	}

	var (
		col *m.Col
		e   error
	)
	if col, e = m.NewCol(flag, d.DTint, d.ColName(cfg.Unreliable), d.ColSource("label")); e != nil {
		return nil, e
	}

	return df.With(col)
}

// Balance is the count of unreliable and reliable claims for one target.
type Balance struct {
	Target     string
	Unreliable int
	Reliable   int
}

// Share is the fraction of claims that are unreliable.
func (b Balance) Share() float64 {
	if b.Unreliable+b.Reliable == 0 {
		return 0
	}

	return float64(b.Unreliable) / float64(b.Unreliable+b.Reliable)
}

// ClassBalance counts, for each target present, the claims below and at or above the threshold.
// Missing targets are not counted.
func ClassBalance(cfg *Config, df *m.DF) []Balance {
	var out []Balance
	for _, target := range cfg.Targets {
		if !df.HasColumns(target) {
			continue
		}

		col, _ := df.Col(target)
		b := Balance{Target: target}
		for row := 0; row < col.Len(); row++ {
			if col.IsMissing(row) {
				continue
			}

			if col.ElementFloat(row) < cfg.UnreliableThreshold {
				b.Unreliable++
			} else {
				b.Reliable++
			}
		}

		out = append(out, b)
	}

	return out
}
