package lint

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/tsniff/internal"
	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/scanner"
)

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// Progress is where directory progress bars are drawn. Set it to nil to
// disable them.
var Progress io.Writer = os.Stderr

// New creates an engine from the configuration. A cache directory enables
// the issue cache, keyed on the rule configuration.
func New(cfg Config, logger *zap.Logger) (*internal.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []internal.Option{internal.WithLogger(logger)}
	if cfg.CacheDir != "" {
		rules, err := yaml.Marshal(cfg.Rules)
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint rules: %w", err)
		}
		cache, err := internal.NewCache(cfg.CacheDir, internal.Fingerprint(rules))
		if err != nil {
			return nil, err
		}
		opts = append(opts, internal.WithCache(cache))
	}

	return internal.NewEngine(cfg.Rules, opts...)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessFiles lints every path in order; extensions select the files of
// directory paths.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	extensions []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, extensions, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allIssues, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints a file, or every matching file under a directory. Files
// of a directory are linted in parallel; their issues are returned in path
// order. On cancellation the issues of the files already linted are
// returned with the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	extensions []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	// a file named explicitly is linted whatever its extension
	if !info.IsDir() {
		return processor(engine, path)
	}

	files, err := scanner.New(path, extensions...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}

	bar := newProgressBar(len(files), path)

	results := make([][]tt.Issue, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileIssues, err := processor(engine, file.Path)
			if err != nil {
				// one unreadable dump does not stop the others
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", file.Path), zap.Error(err))
				}
			} else {
				results[i] = fileIssues
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	var issues []tt.Issue
	for _, fileIssues := range results {
		issues = append(issues, fileIssues...)
	}
	if err == nil {
		err = ctx.Err()
	}
	return issues, err
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	if Progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(Progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}
