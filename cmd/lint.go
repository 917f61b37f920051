package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gnolang/tsniff/internal"
	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Lint token dumps",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		count, err := runLint(ctx, cmd.Flags(), cmd.OutOrStdout(), args)
		if err != nil {
			logger.Fatal("Lint failed", zap.Error(err))
		}
		if count > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules or rule.Code pairs to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().String("cache-dir", "", "Directory of the issue cache (disabled when empty)")
	lintCmd.Flags().StringSlice("extensions", nil, "File suffixes of token dumps in directories")
}

// runLint lints paths and prints the issues. It returns the number of
// issues found.
func runLint(ctx context.Context, flags *pflag.FlagSet, out io.Writer, paths []string) (int, error) {
	cfg, err := lint.LoadConfig(cfgFile, flags)
	if err != nil {
		return 0, err
	}
	engine, err := lint.New(cfg, logger)
	if err != nil {
		return 0, fmt.Errorf("failed to initialize lint engine: %w", err)
	}

	for _, rule := range splitList(ignoreRules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(ignorePaths) {
		engine.IgnorePath(path)
	}

	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, cfg.Extensions, lint.ProcessFile)
	if err != nil {
		return 0, fmt.Errorf("error processing files: %w", err)
	}

	if err := printIssues(out, issues, lintJsonOutput, outPath); err != nil {
		return 0, err
	}
	return len(issues), nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func printIssues(out io.Writer, issues []tt.Issue, isJson bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJson {
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(out, string(d))
			return err
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			// still show the messages, without excerpts
			logger.Warn("Error reading source file", zap.String("file", filename), zap.Error(err))
		}
		fmt.Fprintln(out, internal.FormatIssuesWithArrows(issuesByFile[filename], sourceCode))
	}
	return nil
}
