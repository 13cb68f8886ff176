package cli

import (
	"github.com/spf13/cobra"

	"github.com/cfnamer/cfnamer/internal/config"
	"github.com/cfnamer/cfnamer/internal/rule"
	"github.com/cfnamer/cfnamer/internal/rulefile"
)

// ConfigFlags are the flags that feed the pass configuration. Explicit
// flags win over values from the config file.
type ConfigFlags struct {
	ConfigPath          string
	Prefix              string
	ExportPrefix        string
	GenerateExports     bool
	StripFunctionSuffix bool
	NoWarnUnknown       bool
	RulesPath           string
}

// Register adds the configuration flags to a command.
func (cf *ConfigFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cf.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&cf.Prefix, "prefix", "p", "", "prefix for synthesized names")
	cmd.Flags().StringVar(&cf.ExportPrefix, "export-prefix", "", "prefix for export names (defaults to --prefix)")
	cmd.Flags().BoolVar(&cf.GenerateExports, "exports", false, "generate names for stack output exports")
	cmd.Flags().BoolVar(&cf.StripFunctionSuffix, "strip-function-suffix", false, "strip the LambdaFunction suffix from function logical ids")
	cmd.Flags().BoolVar(&cf.NoWarnUnknown, "no-warn-unknown", false, "suppress warnings for types without a naming rule")
	cmd.Flags().StringVar(&cf.RulesPath, "rules", "", "CUE rule override file")
}

// Resolve builds the pass configuration: config file first, then any
// explicitly set flags on top. Validation happens in the engine, once,
// before any declaration is touched.
func (cf *ConfigFlags) Resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cf.ConfigPath != "" {
		loaded, err := config.Load(cf.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("prefix") {
		cfg.Prefix = cf.Prefix
	}
	if flags.Changed("export-prefix") {
		cfg.ExportPrefix = cf.ExportPrefix
	}
	if flags.Changed("exports") {
		cfg.GenerateExports = cf.GenerateExports
	}
	if flags.Changed("strip-function-suffix") {
		cfg.StripFunctionSuffix = cf.StripFunctionSuffix
	}
	if cf.NoWarnUnknown {
		cfg.WarnOnUnknownType = false
	}
	return cfg, nil
}

// ResolveTable builds the effective rule table: the built-in table with
// any file-supplied overrides prepended so they win under first-match.
func (cf *ConfigFlags) ResolveTable() (*rule.Table, error) {
	table := rule.Default()
	if cf.RulesPath != "" {
		overrides, err := rulefile.Load(cf.RulesPath)
		if err != nil {
			return nil, err
		}
		table.Prepend(overrides...)
	}
	return table, nil
}
