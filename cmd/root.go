package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/scourfs/scour/internal/search"
)

var version = "0.1.0"

// rootCmd is the search itself: walk a directory tree and print every entry
// whose name matches the pattern.
var rootCmd = &cobra.Command{
	Use:   "scour [flags] [directory] [search-pattern]",
	Short: "Search a directory tree by name",
	Long: `scour recursively walks a directory tree and prints the path of every
entry whose name matches the search pattern. With no pattern every entry
matches; with no directory the search starts in the current directory.

Examples:
  scour
  scour /etc conf
  scour -f -e ~/notes todo.md
  scour -d -l 2 /var log`,
	Version: version,
	Args:    cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd, args)
	},
}

// Execute runs the root command and returns its error for main to turn into
// an exit status.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("dirs-only", "d", false, "Only display directories (no files)")
	rootCmd.Flags().BoolP("files-only", "f", false, "Only display files (no directories)")
	rootCmd.Flags().BoolP("exact", "e", false, "Match search-pattern exactly; no partial matches reported")
	rootCmd.Flags().BoolP("hidden", "h", false, "Display hidden files")
	rootCmd.Flags().BoolP("usage", "H", false, "Display help/usage information and exit")
	rootCmd.Flags().IntP("limit", "l", 0, "Set a depth limit, e.g. recurse no more than 2 directories deep")
	rootCmd.Flags().String("on-error", "skip", "Unreadable subdirectory policy (skip|stop)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Disable all diagnostics except errors")

	// -h belongs to --hidden here; registering our own help flag keeps cobra
	// from claiming the shorthand. --help still works.
	rootCmd.Flags().Bool("help", false, "Help for scour")
	rootCmd.Flags().Lookup("help").Hidden = true

	viper.BindPFlag("dirs-only", rootCmd.Flags().Lookup("dirs-only"))
	viper.BindPFlag("files-only", rootCmd.Flags().Lookup("files-only"))
	viper.BindPFlag("exact", rootCmd.Flags().Lookup("exact"))
	viper.BindPFlag("hidden", rootCmd.Flags().Lookup("hidden"))
	viper.BindPFlag("limit", rootCmd.Flags().Lookup("limit"))
	viper.BindPFlag("on-error", rootCmd.Flags().Lookup("on-error"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
}

// initConfig reads $HOME/.scour.yaml and SCOUR_* environment variables if
// present. Nothing is printed on success: stdout carries matched paths only.
func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName(".scour")
	viper.SetEnvPrefix("scour")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func runSearch(cmd *cobra.Command, args []string) error {
	if usage, _ := cmd.Flags().GetBool("usage"); usage {
		_ = cmd.Usage()
		os.Exit(1)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	root, pattern := positionals(args)
	cfg.Pattern = pattern

	mode := search.ErrorHandlingSkip
	switch viper.GetString("on-error") {
	case "skip":
	case "stop":
		mode = search.ErrorHandlingStop
	default:
		return fmt.Errorf("invalid on-error mode %q (want skip or stop)", viper.GetString("on-error"))
	}

	// Flags parsed fine; a traversal failure from here on is not a usage
	// problem.
	cmd.SilenceUsage = true

	logger := newLogger()
	defer logger.Sync()

	out := bufio.NewWriter(cmd.OutOrStdout())
	stats, err := search.Search(context.Background(), root, search.Options{
		Config:        cfg,
		ErrorHandling: mode,
		Out:           out,
		Logger:        logger,
	})
	if ferr := out.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("searching %s: %w", root, err)
	}

	logger.Debug("search complete",
		zap.Int64("matched", stats.Matched),
		zap.Int64("dirs_scanned", stats.DirsScanned),
		zap.Int64("skipped", stats.Skipped),
	)
	return nil
}

// buildConfig maps the flag/viper surface onto the engine configuration.
func buildConfig(cmd *cobra.Command) (search.Config, error) {
	cfg := search.DefaultConfig()
	if viper.GetBool("dirs-only") {
		cfg.ShowFiles = false
	}
	if viper.GetBool("files-only") {
		cfg.ShowDirs = false
	}
	cfg.ExactMatch = viper.GetBool("exact")
	cfg.ShowHidden = viper.GetBool("hidden")

	maxDepth, err := mapDepthLimit(viper.GetInt("limit"), cmd.Flags().Changed("limit"))
	if err != nil {
		return search.Config{}, err
	}
	cfg.MaxDepth = maxDepth
	return cfg, nil
}

// mapDepthLimit converts the user-facing -l value ("recurse no more than N
// directories deep", N >= 1) to the engine's MaxDepth, which counts from the
// starting directory's children. changed distinguishes an explicit zero from
// the flag's default.
func mapDepthLimit(limit int, changed bool) (int, error) {
	switch {
	case limit > 0:
		return limit - 1, nil
	case limit < 0 || changed:
		return 0, fmt.Errorf("invalid depth limit %d: must be a positive integer", limit)
	default:
		return search.Unbounded, nil
	}
}

// positionals applies the defaults for the two optional arguments: search
// the current directory, match everything.
func positionals(args []string) (root, pattern string) {
	root = "."
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		pattern = args[1]
	}
	return root, pattern
}

// newLogger builds the diagnostics logger. Warnings (skipped subtrees) are
// visible by default; --verbose switches to a development config at debug
// level and --silent keeps errors only. All output goes to stderr so the
// matched-path stream stays clean.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	switch {
	case viper.GetBool("verbose"):
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case viper.GetBool("silent"):
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
