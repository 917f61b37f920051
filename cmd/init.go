package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/tsniff/internal/sniffs"
	tt "github.com/gnolang/tsniff/internal/types"
	"github.com/gnolang/tsniff/lint"
	"github.com/gnolang/tsniff/scanner"
)

const defaultConfigFile = ".tsniff.yaml"

// initCmd: tsniff init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new linter configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = defaultConfigFile
		}
		if err := initConfigurationFile(path); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
	},
}

// starterConfig enables every rule with its default options.
func starterConfig() lint.Config {
	rules := make(map[string]tt.ConfigRule)
	for _, rule := range sniffs.Defaults() {
		cfg := tt.ConfigRule{Severity: tt.SeverityError}
		if brace, ok := rule.(*sniffs.ScopeClosingBrace); ok {
			cfg.Options = map[string]any{"indent": brace.Indent}
		}
		rules[rule.Name()] = cfg
	}
	return lint.Config{
		Name:       lint.DefaultName,
		Extensions: scanner.DefaultExtensions,
		Rules:      rules,
	}
}

func initConfigurationFile(configurationPath string) error {
	d, err := yaml.Marshal(starterConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}
