// Package internal provides the core of the token stream checker.
//
// Key components:
//
// Engine: hands every token of a stream to the rules registered for its
// kind, turns their violations into issues, and applies per-rule severity,
// ignored rules and codes, ignored paths and nolint comments.
//
// Cache: keeps the issues of unchanged token dumps between runs.
//
// Watcher: re-lints token dumps when they are rewritten.
//
// SourceCode: the source lines rebuilt from a stream, used when printing
// issues with their excerpt.
//
// Usage:
//
//	engine, err := internal.NewEngine(rules)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.tokens")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("Found issue: %s at %s\n", issue.Message, issue.Start)
//	}
package internal
