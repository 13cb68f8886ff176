package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NameResult is the resolved name of a single function resource.
type NameResult struct {
	LogicalID string `json:"logical_id"`
	Name      string `json:"name"`
}

// NewNameCommand creates the name command.
func NewNameCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "name <logical-id>",
		Short: "Resolve the materialized name of a function resource",
		Long: `Resolve the external name a callable function resource will carry,
without running a full pass. Uses the same rule table entry as apply, so
the answer always matches what a pass would write.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runName(rootOpts, opts, args[0], cmd)
		},
	}

	opts.Register(cmd)
	return cmd
}

func runName(rootOpts *RootOptions, opts *ConfigFlags, logicalID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	cfg, err := opts.Resolve(cmd)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeConfig, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeConfig, err.Error())
	}
	table, err := opts.ResolveTable()
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeRuleFile, err.Error())
	}

	name, err := table.FunctionName(logicalID, cfg)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeGeneric, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(NameResult{LogicalID: logicalID, Name: name})
	}
	fmt.Fprintln(formatter.Writer, name)
	return nil
}
