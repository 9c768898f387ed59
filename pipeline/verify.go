package pipeline

import (
	"errors"
	"fmt"

	m "github.com/invertedv/claimsprep/mem"
)

// ErrVerify is wrapped by every error Verify returns.
var ErrVerify = errors.New("cleaned table failed verification")

// Verify checks a cleaned table: every target present is populated and in [0,1], no leakage column
// remains and no column has missing values.
func Verify(cfg *Config, df *m.DF) error {
	for _, target := range cfg.Targets {
		if !df.HasColumns(target) {
			continue
		}

		col, _ := df.Col(target)
		if !col.DataType().IsNumeric() {
			return fmt.Errorf("%w: target %s is %s", ErrVerify, target, col.DataType())
		}

		x, _ := col.Floats()
		for row, xv := range x {
			if col.IsMissing(row) || xv < 0 || xv > 1 {
				return fmt.Errorf("%w: target %s row %d is %v", ErrVerify, target, row, col.Element(row))
			}
		}
	}

	if leak := leaked(cfg, df); leak != nil {
		return fmt.Errorf("%w: leakage columns remain: %v", ErrVerify, leak)
	}

	if miss := df.MissingColumns(); miss != nil {
		return fmt.Errorf("%w: columns with missing values: %v", ErrVerify, miss)
	}

	return nil
}
