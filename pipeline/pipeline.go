// Package pipeline cleans a claims table for reliability modeling.
//
// Run applies six stages in order, each to the output of the one before:
//
//  1. SanitizeTargets: targets clipped to [0,1], rows with a missing target dropped
//  2. AddTenure: tenure in years from the commencement and termination dates
//  3. EnrichWages: ratio of the weekly wage to the industry benchmark, and a high deviation flag
//  4. DropLeakage: columns that encode the outcome are removed
//  5. WinsorizeDelay: negative delays dropped, the right tail capped
//  6. Impute: missing indicators added, medians and modes filled in
//
// The caller's table is never modified.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	m "github.com/invertedv/claimsprep/mem"
	"go.uber.org/zap"
)

// Report summarizes one call to Run.
type Report struct {
	RunID string

	RowsIn, ColsIn   int
	RowsOut, ColsOut int

	// Unmatched are the industries reaching the wage stage that have no benchmark.
	Unmatched []string
	Stages    []StageReport
}

// StageReport is the table shape after one stage and the time the stage took.
type StageReport struct {
	Name     string
	Rows     int
	Cols     int
	Duration time.Duration
}

// String is the report as a short text table.
func (r *Report) String() string {
	s := fmt.Sprintf("run %s: %d x %d -> %d x %d\n", r.RunID, r.RowsIn, r.ColsIn, r.RowsOut, r.ColsOut)
	for _, st := range r.Stages {
		s += fmt.Sprintf("  %-16s %8d rows %4d cols  %v\n", st.Name, st.Rows, st.Cols, st.Duration)
	}

	if len(r.Unmatched) > 0 {
		s += fmt.Sprintf("  industries without benchmark: %v\n", r.Unmatched)
	}

	return s
}

type options struct {
	cfg    *Config
	logger *zap.Logger
}

// Opt sets an option of Run.
type Opt func(o *options) error

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Opt {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("nil config")
		}

		if e := cfg.Validate(); e != nil {
			return e
		}

		o.cfg = cfg

		return nil
	}
}

// WithLogger sets the logger for diagnostics. The default discards them.
func WithLogger(logger *zap.Logger) Opt {
	return func(o *options) error {
		if logger == nil {
			return fmt.Errorf("nil logger")
		}

		o.logger = logger

		return nil
	}
}

// Stages returns the pipeline stages in the order Run applies them.
func Stages(cfg *Config, ref *m.DF, logger *zap.Logger) []Stage {
	var out []Stage
	for _, ns := range stages(cfg, ref, logger, nil) {
		out = append(out, ns.stage)
	}

	return out
}

// stages builds the named stages. A non-nil rpt collects the unmatched industries.
func stages(cfg *Config, ref *m.DF, logger *zap.Logger, rpt *Report) []namedStage {
	var onUnmatched func([]string)
	if rpt != nil {
		onUnmatched = func(industries []string) { rpt.Unmatched = industries }
	}

	return []namedStage{
		{"targets", SanitizeTargets(cfg)},
		{"tenure", AddTenure(cfg)},
		{"wages", enrichWages(cfg, ref, logger, onUnmatched)},
		{"leakage", DropLeakage(cfg)},
		{"delay", WinsorizeDelay(cfg)},
		{"impute", Impute(cfg)},
	}
}

// Run cleans claims, using ref for the industry wage benchmarks. ctx is checked before each stage.
func Run(ctx context.Context, claims, ref *m.DF, opts ...Opt) (*m.DF, *Report, error) {
	o := &options{cfg: Default(), logger: zap.NewNop()}
	for _, opt := range opts {
		if e := opt(o); e != nil {
			return nil, nil, e
		}
	}

	if claims == nil {
		return nil, nil, fmt.Errorf("nil claims table")
	}

	rpt := &Report{RunID: uuid.NewString()}
	logger := o.logger.With(zap.String("run_id", rpt.RunID))

	rpt.RowsIn, rpt.ColsIn = claims.Shape()
	logger.Info("pipeline start", zap.Int("rows", rpt.RowsIn), zap.Int("cols", rpt.ColsIn),
		zap.String("config", o.cfg.Source()))

	df := claims.Copy()
	for _, ns := range stages(o.cfg, ref, logger, rpt) {
		if e := ctx.Err(); e != nil {
			return nil, rpt, fmt.Errorf("before stage %s: %w", ns.name, e)
		}

		start := time.Now()

		var e error
		if df, e = ns.stage(df); e != nil {
			return nil, rpt, fmt.Errorf("stage %s: %w", ns.name, e)
		}

		sr := StageReport{Name: ns.name, Duration: time.Since(start)}
		sr.Rows, sr.Cols = df.Shape()
		rpt.Stages = append(rpt.Stages, sr)

		logger.Debug("stage done", zap.String("stage", ns.name), zap.Int("rows", sr.Rows),
			zap.Int("cols", sr.Cols), zap.Duration("elapsed", sr.Duration))
	}

	rpt.RowsOut, rpt.ColsOut = df.Shape()
	logger.Info("pipeline done", zap.Int("rows", rpt.RowsOut), zap.Int("cols", rpt.ColsOut))

	return df, rpt, nil
}
