package internal

import (
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/tsniff/internal/nolint"
	"github.com/gnolang/tsniff/internal/sniffs"
	"github.com/gnolang/tsniff/internal/tokens"
	tt "github.com/gnolang/tsniff/internal/types"
)

// Engine manages the linting process: it hands every token of a stream to
// the rules registered for its kind and turns their violations into issues.
type Engine struct {
	logger       *zap.Logger
	cache        *Cache
	rules        map[string]sniffs.Sniff
	severities   map[string]tt.Severity
	listeners    map[tokens.Kind][]sniffs.Sniff
	ignoredRules map[string]bool
	ignoredPaths []string
}

// Option customizes an Engine.
type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCache makes Run reuse issues of unchanged files.
func WithCache(cache *Cache) Option {
	return func(e *Engine) { e.cache = cache }
}

// NewEngine creates a lint engine with the default rules, adjusted by the
// per-rule configuration.
func NewEngine(rules map[string]tt.ConfigRule, opts ...Option) (*Engine, error) {
	engine := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(engine)
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	engine.index()
	return engine, nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]sniffs.Sniff)
	e.severities = make(map[string]tt.Severity)
	for _, rule := range sniffs.Defaults() {
		e.rules[rule.Name()] = rule
		e.severities[rule.Name()] = tt.SeverityError
	}

	for key, cfg := range rules {
		rule, ok := e.rules[key]
		if !ok {
			e.logger.Warn("Unknown rule in configuration", zap.String("rule", key))
			continue
		}
		e.severities[key] = cfg.Severity
		if len(cfg.Options) == 0 {
			continue
		}
		configurable, ok := rule.(sniffs.Configurable)
		if !ok {
			return fmt.Errorf("%w: rule %s takes no options", sniffs.ErrInvalidOption, key)
		}
		if err := configurable.Configure(cfg.Options); err != nil {
			return err
		}
	}
	return nil
}

// index builds the kind to rules dispatch table, leaving out disabled rules.
func (e *Engine) index() {
	e.listeners = make(map[tokens.Kind][]sniffs.Sniff)
	for _, rule := range e.Rules() {
		if e.severities[rule.Name()] == tt.SeverityOff {
			continue
		}
		for _, kind := range rule.Register() {
			e.listeners[kind] = append(e.listeners[kind], rule)
		}
	}
}

// Rules returns the rules known to the engine, sorted by name.
func (e *Engine) Rules() []sniffs.Sniff {
	all := make([]sniffs.Sniff, 0, len(e.rules))
	for _, rule := range e.rules {
		all = append(all, rule)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// Severity returns the configured severity of a rule.
func (e *Engine) Severity(rule string) tt.Severity {
	return e.severities[rule]
}

// Run lints the token dump at filename.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}
	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			e.logger.Debug("Using cached issues", zap.String("file", filename))
			return e.filterIgnored(issues), nil
		}
	}

	stream, err := tokens.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("error loading tokens: %w", err)
	}
	issues := e.check(filename, stream)

	if e.cache != nil {
		if err := e.cache.Set(filename, issues); err != nil {
			e.logger.Warn("Failed to cache issues", zap.String("file", filename), zap.Error(err))
		}
	}
	return e.filterIgnored(issues), nil
}

// RunSource lints a token dump held in memory.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	stream, err := tokens.Decode(source)
	if err != nil {
		return nil, fmt.Errorf("error decoding tokens: %w", err)
	}
	return e.RunStream("", stream), nil
}

// RunStream lints an already decoded stream.
func (e *Engine) RunStream(filename string, stream *tokens.Stream) []tt.Issue {
	return e.filterIgnored(e.check(filename, stream))
}

// check dispatches every token of the stream to its rules, in stream order,
// and drops issues suppressed by nolint comments.
func (e *Engine) check(filename string, stream *tokens.Stream) []tt.Issue {
	nolintMgr := nolint.ParseComments(stream)

	var issues []tt.Issue
	for ptr := 0; ptr < stream.Len(); ptr++ {
		for _, rule := range e.listeners[stream.At(ptr).Kind] {
			for _, v := range rule.Process(stream, ptr) {
				issue := e.toIssue(filename, stream, rule, v)
				if nolintMgr.IsNolint(issue.Start.Line, issue.Rule, issue.Code) {
					continue
				}
				issues = append(issues, issue)
			}
		}
	}
	e.logger.Debug("Linted token stream",
		zap.String("file", filename),
		zap.Int("tokens", stream.Len()),
		zap.Int("issues", len(issues)))
	return issues
}

func (e *Engine) filterIgnored(issues []tt.Issue) []tt.Issue {
	if len(e.ignoredRules) == 0 {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !e.ignoredRules[issue.Rule] && !e.ignoredRules[issue.Key()] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func (e *Engine) toIssue(filename string, stream *tokens.Stream, rule sniffs.Sniff, v sniffs.Violation) tt.Issue {
	anchor := stream.At(v.Pos)
	message := v.Message
	if len(v.Data) > 0 {
		message = fmt.Sprintf(v.Message, v.Data...)
	}
	return tt.Issue{
		Rule:     rule.Name(),
		Code:     v.Code,
		Severity: e.severities[rule.Name()],
		Filename: filename,
		Message:  message,
		Start: token.Position{
			Filename: filename,
			Line:     anchor.Line,
			Column:   anchor.Column,
		},
	}
}

// IgnoreRule drops issues of a rule ("scope-closing-brace") or of a single
// code ("scope-closing-brace.Indent").
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files under path or matching it as a glob.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	clean := filepath.Clean(filename)
	for _, p := range e.ignoredPaths {
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
		if ok, _ := filepath.Match(p, clean); ok {
			return true
		}
	}
	return false
}
