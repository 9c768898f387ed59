package pipeline

import (
	m "github.com/invertedv/claimsprep/mem"
)

// DropLeakage removes the columns in cfg.Leakage that are present.
func DropLeakage(cfg *Config) Stage {
	return func(df *m.DF) (*m.DF, error) {
		return df.Drop(cfg.Leakage...)
	}
}

// leaked lists the leakage columns present in df.
func leaked(cfg *Config, df *m.DF) []string {
	var out []string
	for _, cn := range cfg.Leakage {
		if df.HasColumns(cn) {
			out = append(out, cn)
		}
	}

	return out
}
