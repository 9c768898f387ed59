package pipeline

import (
	m "github.com/invertedv/claimsprep/mem"
)

// Stage is one step of the cleaning pipeline. A Stage returns a new table and leaves its input unchanged.
type Stage func(df *m.DF) (*m.DF, error)

type namedStage struct {
	name  string
	stage Stage
}
