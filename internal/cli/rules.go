package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// RuleInfo describes one rule table entry for listing.
type RuleInfo struct {
	Type     string `json:"type"`
	Property string `json:"property,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective naming rule table",
		Long: `List every rule in precedence order: overrides from --rules first,
then the built-in table. The first matching entry wins.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, opts, cmd)
		},
	}

	opts.Register(cmd)
	return cmd
}

func runRules(rootOpts *RootOptions, opts *ConfigFlags, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	table, err := opts.ResolveTable()
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeRuleFile, err.Error())
	}

	infos := make([]RuleInfo, 0, table.Len())
	for _, r := range table.Rules() {
		info := RuleInfo{Type: r.TypeID().String()}
		if r.NamingEnabled() {
			info.Property = r.PropertyKey()
		} else {
			info.Disabled = true
		}
		infos = append(infos, info)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPROPERTY")
	for _, info := range infos {
		prop := info.Property
		if info.Disabled {
			prop = "(structural)"
		}
		fmt.Fprintf(w, "%s\t%s\n", info.Type, prop)
	}
	return w.Flush()
}
