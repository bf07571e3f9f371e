package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"headerdoc/internal/config"
	"headerdoc/internal/pipeline"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootFlags holds the values bound to the root command's flags. Flags only
// override the config file when they were set explicitly.
type rootFlags struct {
	configPath string
	format     string
	out        string
	title      string
	toc        bool
	links      bool
	strict     bool
	linkBase   string
	pad        int
	jsonPath   string
	reportPath string
	dbPath     string
	watch      bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "headerdoc: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "headerdoc [flags] <file>",
		Short: "Generate documentation from an annotated C header",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return pipeline.ErrUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, f, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.format, "format", "markdown", "Output format: markdown or cheatsheet")
	flags.StringVarP(&f.out, "out", "o", "", "Output path (default DOCS.md or CHEATSHEET.h)")
	flags.StringVar(&f.title, "title", "", "Document title (default derived from the file name)")
	flags.BoolVar(&f.toc, "toc", false, "Render a table of contents")
	flags.BoolVar(&f.links, "links", true, "Link entries to their definition lines")
	flags.BoolVar(&f.strict, "strict", false, "Fail when a declaration has no definition")
	flags.StringVar(&f.linkBase, "link-base", "", "Prefix for source links; {commit} expands to HEAD")
	flags.IntVar(&f.pad, "pad", 0, "Cheatsheet comment column (default 48)")
	flags.StringVar(&f.jsonPath, "json", "", "Also write the JSON document model to this path")
	flags.StringVar(&f.reportPath, "report", "", "Also write a pipeline report to this path")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Regenerate whenever the file changes")

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&f.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	persistent.StringVarP(&f.dbPath, "db", "d", "", "Path to the SQLite entry index")
	persistent.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newLookupCmd(f))
	cmd.AddCommand(newCheckCmd())
	return cmd
}

func runRoot(cmd *cobra.Command, f *rootFlags, source string) error {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := buildOptions(cmd, f, cfg, source)
	if err != nil {
		return err
	}
	logger := setupLogger(logLevel(cmd, f, cfg), cmd.ErrOrStderr())
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(opts)
	if f.watch {
		return runner.Watch(ctx, pipeline.DefaultDebounce, nil)
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Documentation written to %s (%d entries).\n", res.Output, len(res.Document.Entries()))
	return nil
}

func logLevel(cmd *cobra.Command, f *rootFlags, cfg *config.Config) string {
	if cmd.Flags().Changed("log-level") {
		return f.logLevel
	}
	return cfg.Log.Level
}

// setupLogger configures a logrus text logger; unknown levels fall back to info.
func setupLogger(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}
