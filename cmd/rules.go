package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsniff/internal"
	"github.com/gnolang/tsniff/lint"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rules with their codes and configured severity",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := lint.LoadConfig(cfgFile, nil)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		engine, err := internal.NewEngine(cfg.Rules, internal.WithLogger(logger))
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}
		renderRules(cmd.OutOrStdout(), engine)
	},
}

func renderRules(out io.Writer, engine *internal.Engine) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Codes", "Triggers", "Severity"})
	for _, rule := range engine.Rules() {
		triggers := make([]string, 0, len(rule.Register()))
		for _, kind := range rule.Register() {
			triggers = append(triggers, kind.String())
		}
		t.AppendRow(table.Row{
			rule.Name(),
			strings.Join(rule.Codes(), "\n"),
			wrapList(triggers, 3),
			engine.Severity(rule.Name()),
		})
		t.AppendSeparator()
	}
	t.Render()
}

// wrapList joins items, perLine per line.
func wrapList(items []string, perLine int) string {
	var b strings.Builder
	for i, item := range items {
		switch {
		case i == 0:
		case i%perLine == 0:
			b.WriteString("\n")
		default:
			b.WriteString(", ")
		}
		fmt.Fprint(&b, item)
	}
	return b.String()
}
