package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cfnamer/cfnamer/internal/driver"
	"github.com/cfnamer/cfnamer/internal/engine"
	"github.com/cfnamer/cfnamer/internal/manifest"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	ConfigFlags
	PriorPath    string
	OutputPath   string
	ManifestPath string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <template>",
		Short: "Inject resource names into a stack template",
		Long: `Apply the naming rules to every resource in a stack template.

Each matched resource gets a synthesized name derived from its logical id,
unless a name is already present on the prior template (--prior), in which
case the existing name wins. The template is rewritten in place unless
--output is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, opts, args[0], cmd)
		},
	}

	opts.ConfigFlags.Register(cmd)
	cmd.Flags().StringVar(&opts.PriorPath, "prior", "", "previously materialized template used for override-avoidance")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "output path (defaults to in-place rewrite)")
	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "SQLite manifest recording materialized names")

	return cmd
}

func runApply(rootOpts *RootOptions, opts *ApplyOptions, templatePath string, cmd *cobra.Command) error {
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
	table, err := opts.ResolveTable()
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeRuleFile, err.Error())
	}
	formatter.VerboseLog("rule table has %d entries", table.Len())

	// Warnings go to stderr through slog so JSON output stays clean.
	logger := slog.New(slog.NewTextHandler(formatter.GetErrWriter(), nil))
	namer := engine.New(table, func(msg string) { logger.Warn(msg) })

	var store *manifest.Store
	if opts.ManifestPath != "" {
		store, err = manifest.Open(opts.ManifestPath)
		if err != nil {
			return outputError(formatter, ExitCommandError, ErrCodeManifest, err.Error())
		}
		defer store.Close()
	}

	d := driver.New(namer, store)
	result, err := d.Run(cmd.Context(), driver.Options{
		TemplatePath: templatePath,
		PriorPath:    opts.PriorPath,
		OutputPath:   opts.OutputPath,
		Config:       cfg,
	})
	if err != nil {
		return outputEngineError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Named %d of %d resources (%d kept) -> %s\n",
		result.Named, result.Resources, result.Kept, result.OutputPath)
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "  manifest run %s\n", result.RunID)
	}
	return nil
}
