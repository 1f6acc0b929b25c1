package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scourfs/scour/internal/search"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory] [search-pattern]",
	Short: "Watch a directory tree and print newly created matches",
	Long: `watch monitors a directory tree and prints the path of every newly
created entry that the search filters would print. It runs until
interrupted or until --timeout elapses.

Examples:
  scour watch /tmp
  scour watch -f ~/downloads .pdf
  scour watch --timeout 30s -l 1 /var/log`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolP("dirs-only", "d", false, "Only display directories (no files)")
	watchCmd.Flags().BoolP("files-only", "f", false, "Only display files (no directories)")
	watchCmd.Flags().BoolP("exact", "e", false, "Match search-pattern exactly; no partial matches reported")
	watchCmd.Flags().BoolP("hidden", "h", false, "Display hidden files")
	watchCmd.Flags().IntP("limit", "l", 0, "Set a depth limit for watched directories")
	watchCmd.Flags().Bool("recursive", true, "Watch subdirectories, including ones created later")
	watchCmd.Flags().Duration("timeout", 0, "Stop watching after this long (0 = until interrupted)")

	// Same shorthand arrangement as the root command: -h means --hidden.
	watchCmd.Flags().Bool("help", false, "Help for watch")
	watchCmd.Flags().Lookup("help").Hidden = true

	viper.BindPFlag("watch.dirs-only", watchCmd.Flags().Lookup("dirs-only"))
	viper.BindPFlag("watch.files-only", watchCmd.Flags().Lookup("files-only"))
	viper.BindPFlag("watch.exact", watchCmd.Flags().Lookup("exact"))
	viper.BindPFlag("watch.hidden", watchCmd.Flags().Lookup("hidden"))
	viper.BindPFlag("watch.limit", watchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("watch.recursive", watchCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("watch.timeout", watchCmd.Flags().Lookup("timeout"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := search.DefaultConfig()
	if viper.GetBool("watch.dirs-only") {
		cfg.ShowFiles = false
	}
	if viper.GetBool("watch.files-only") {
		cfg.ShowDirs = false
	}
	cfg.ExactMatch = viper.GetBool("watch.exact")
	cfg.ShowHidden = viper.GetBool("watch.hidden")

	maxDepth, err := mapDepthLimit(viper.GetInt("watch.limit"), cmd.Flags().Changed("limit"))
	if err != nil {
		return err
	}
	cfg.MaxDepth = maxDepth

	root, pattern := positionals(args)
	cfg.Pattern = pattern

	cmd.SilenceUsage = true

	logger := newLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = search.Watch(ctx, root, search.WatchOptions{
		Config:    cfg,
		Recursive: viper.GetBool("watch.recursive"),
		Timeout:   viper.GetDuration("watch.timeout"),
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
	})
	if errors.Is(err, context.Canceled) {
		// Interrupted by the user; that is the normal way out.
		return nil
	}
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	return nil
}
