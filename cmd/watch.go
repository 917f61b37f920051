package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsniff/internal"
	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/lint"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-lint token dumps whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		cfg, err := lint.LoadConfig(cfgFile, cmd.Flags())
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		engine, err := lint.New(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		out := cmd.OutOrStdout()
		report := func(filename string, issues []tt.Issue) {
			if len(issues) == 0 {
				fmt.Fprintf(out, "no issues found in %s\n", filename)
				return
			}
			if err := printIssues(out, issues, false, ""); err != nil {
				logger.Error("Error printing issues", zap.Error(err))
			}
		}

		watcher, err := internal.NewWatcher(engine, args, cfg.Extensions, report, logger)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching for changes", zap.Strings("dirs", args))
		if err := watcher.Run(ctx); err != nil {
			logger.Fatal("Watcher stopped", zap.Error(err))
		}
	},
}

func init() {
	watchCmd.Flags().String("cache-dir", "", "Directory of the issue cache (disabled when empty)")
	watchCmd.Flags().StringSlice("extensions", nil, "File suffixes of token dumps to watch")
}
