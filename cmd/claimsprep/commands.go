package main

import (
	"context"
	"fmt"

	d "github.com/invertedv/claimsprep/df"
	m "github.com/invertedv/claimsprep/mem"
	"github.com/invertedv/claimsprep/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel string
	devLog   bool
	envFile  string
	logger   *zap.Logger

	mainFile, mainQuery string
	refFile, refQuery   string
	outFile, outTable   string
	orderBy             string
	bufMB               int
	configFile          string
	label, overwrite    bool

	inFile   string
	descCols []string

	rootCmd = &cobra.Command{
		Use:           "claimsprep",
		Short:         "Clean a claims reliability table for modeling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var e error
			logger, e = newLogger(logLevel, devLog)
			return e
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cleanCmd = &cobra.Command{
		Use:   "clean",
		Short: "Run the cleaning pipeline on a claims table and a wage reference table",
		Long: `clean reads the claims table (--main or --main-query) and the industry wage reference
(--ref or --ref-query), runs the pipeline, checks the result and writes it to --out and/or --table.`,
		Args: cobra.NoArgs,
		RunE: runClean,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check that a cleaned table has populated targets in [0,1], no leakage and no missing values",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}

	describeCmd = &cobra.Command{
		Use:   "describe",
		Short: "Print summary statistics of the numeric columns of a file",
		Args:  cobra.NoArgs,
		RunE:  runDescribe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&devLog, "dev", false, "human readable logs")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "file of CLAIMS_* database settings")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "TOML pipeline configuration")

	cleanCmd.Flags().StringVar(&mainFile, "main", "", "claims CSV file")
	cleanCmd.Flags().StringVar(&mainQuery, "main-query", "", "query returning the claims table")
	cleanCmd.Flags().StringVar(&refFile, "ref", "", "industry wage reference CSV file")
	cleanCmd.Flags().StringVar(&refQuery, "ref-query", "", "query returning the industry wage reference")
	cleanCmd.Flags().StringVar(&outFile, "out", "", "output CSV file")
	cleanCmd.Flags().StringVar(&outTable, "table", "", "output database table")
	cleanCmd.Flags().StringVar(&orderBy, "order-by", "", "ORDER BY for a ClickHouse output table; defaults to the first column")
	cleanCmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace --table if it exists")
	cleanCmd.Flags().IntVar(&bufMB, "buf-mb", 1, "MB of rows per INSERT when writing --table; 0 sends one INSERT")
	cleanCmd.Flags().BoolVar(&label, "label", false,
		"trim the target tails, add the unreliable label and log the class balance")
	cleanCmd.MarkFlagsMutuallyExclusive("main", "main-query")
	cleanCmd.MarkFlagsOneRequired("main", "main-query")
	cleanCmd.MarkFlagsMutuallyExclusive("ref", "ref-query")
	cleanCmd.MarkFlagsOneRequired("out", "table")

	verifyCmd.Flags().StringVar(&inFile, "in", "", "cleaned CSV file")
	_ = verifyCmd.MarkFlagRequired("in")

	describeCmd.Flags().StringVar(&inFile, "in", "", "CSV file")
	describeCmd.Flags().StringSliceVar(&descCols, "cols", nil, "columns to describe; default all numeric")
	_ = describeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(cleanCmd, verifyCmd, describeCmd)
}

func loadConfig() (*pipeline.Config, error) {
	if configFile == "" {
		return pipeline.Default(), nil
	}

	return pipeline.LoadConfig(configFile)
}

func loadFile(fileName string) (*m.DF, error) {
	var (
		f *d.Files
		e error
	)
	if f, e = d.NewFiles(); e != nil {
		return nil, e
	}

	return m.FileLoadName(fileName, f)
}

// load reads from the file if it is set, otherwise runs the query.
func load(ctx context.Context, dialect func() (*d.Dialect, error), fileName, qry string) (*m.DF, error) {
	if fileName != "" {
		return loadFile(fileName)
	}

	var (
		dlct *d.Dialect
		e    error
	)
	if dlct, e = dialect(); e != nil {
		return nil, e
	}

	return m.DBLoad(ctx, qry, dlct)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		cfg *pipeline.Config
		e   error
	)
	if cfg, e = loadConfig(); e != nil {
		return e
	}

	var dlct *d.Dialect
	dialect := func() (*d.Dialect, error) {
		if dlct != nil {
			return dlct, nil
		}

		var (
			env *dbEnv
			ex  error
		)
		if env, ex = loadDBEnv(envFile); ex != nil {
			return nil, ex
		}

		if dlct, ex = connect(ctx, env); ex != nil {
			return nil, ex
		}

		logger.Info("connected", zap.String("dialect", env.Dialect), zap.String("host", env.Host),
			zap.Int("port", env.Port), zap.String("database", env.Database))

		return dlct, nil
	}

	defer func() {
		if dlct != nil {
			_ = dlct.Close()
		}
	}()

	var claims, ref *m.DF
	if claims, e = load(ctx, dialect, mainFile, mainQuery); e != nil {
		return fmt.Errorf("claims table: %w", e)
	}

	if refFile != "" || refQuery != "" {
		if ref, e = load(ctx, dialect, refFile, refQuery); e != nil {
			return fmt.Errorf("reference table: %w", e)
		}
	}

	var (
		out *m.DF
		rpt *pipeline.Report
	)
	if out, rpt, e = pipeline.Run(ctx, claims, ref, pipeline.WithConfig(cfg), pipeline.WithLogger(logger)); e != nil {
		return e
	}

	if e = pipeline.Verify(cfg, out); e != nil {
		return e
	}

	if label {
		rows := out.RowCount()
		if out, e = pipeline.TrimTargets(cfg)(out); e != nil {
			return e
		}

		logger.Info("trimmed targets", zap.Int("rows_in", rows), zap.Int("rows_out", out.RowCount()),
			zap.Float64("lower", cfg.TrimLower), zap.Float64("upper", cfg.TrimUpper))

		if out, e = pipeline.LabelUnreliable(cfg, out); e != nil {
			return e
		}

		for _, b := range pipeline.ClassBalance(cfg, out) {
			logger.Info("class balance", zap.String("target", b.Target), zap.Int("unreliable", b.Unreliable),
				zap.Int("reliable", b.Reliable), zap.Float64("share", b.Share()))
		}
	}

	if outFile != "" {
		var f *d.Files
		if f, e = d.NewFiles(); e != nil {
			return e
		}

		if e = out.FileSave(outFile, f); e != nil {
			return e
		}

		logger.Info("wrote file", zap.String("file", outFile))
	}

	if outTable != "" {
		if _, e = dialect(); e != nil {
			return e
		}

		if bufMB < 0 {
			return fmt.Errorf("--buf-mb must not be negative")
		}

		dlct.SetBufSize(bufMB)

		ob := orderBy
		if ob == "" {
			ob = out.ColumnNames()[0]
		}

		if e = dlct.Save(ctx, outTable, ob, overwrite, out); e != nil {
			return e
		}

		logger.Info("wrote table", zap.String("table", outTable), zap.Int("buf_mb", dlct.BufSize()))
	}

	fmt.Fprint(cmd.OutOrStdout(), rpt.String())

	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	var (
		cfg *pipeline.Config
		e   error
	)
	if cfg, e = loadConfig(); e != nil {
		return e
	}

	var df *m.DF
	if df, e = loadFile(inFile); e != nil {
		return e
	}

	if e = pipeline.Verify(cfg, df); e != nil {
		return e
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows, %d columns ok\n", inFile, df.RowCount(), df.ColumnCount())

	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	var (
		df *m.DF
		e  error
	)
	if df, e = loadFile(inFile); e != nil {
		return e
	}

	var desc *m.DF
	if desc, e = m.Describe(df, descCols...); e != nil {
		return e
	}

	fmt.Fprint(cmd.OutOrStdout(), desc.Table(-1))

	return nil
}
