// Package cli implements the cfnamer command line interface. The CLI is
// thin glue: it resolves configuration and the rule table, then hands the
// real work to the engine and driver.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/cfnamer/cfnamer/internal/engine"
)

// Error code constants, unified across all commands. Engine pass errors
// surface their own codes (MISSING_TYPE_TAG, INVALID_TYPE_TAG, ...).
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeNotFound    = "E002" // file or path not found
	ErrCodeTemplate    = "E003" // template read/parse error
	ErrCodeConfig      = "E004" // configuration file error
	ErrCodeRuleFile    = "E005" // rule override file error
	ErrCodeWriteFailed = "E006" // output write error
	ErrCodeManifest    = "E007" // manifest store error
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cfnamer CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cfnamer",
		Short: "cfnamer - deterministic resource naming for stack templates",
		Long: `cfnamer injects human-readable names into stack template resources.

Each resource type has a naming rule describing which property receives a
name and how the name is derived from the resource's logical id. Names a
user already supplied are never overridden.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewNameCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// outputError prints an error through the formatter and converts it to an
// ExitError with the given exit code.
func outputError(f *OutputFormatter, exitCode int, code, message string) error {
	_ = f.Error(code, message)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// outputEngineError maps an engine pass error to formatter output and an
// exit code: template data problems are validation failures, everything
// else is a command error.
func outputEngineError(f *OutputFormatter, err error) error {
	var pe *engine.PassError
	if errors.As(err, &pe) {
		exitCode := ExitCommandError
		if engine.IsTypeTagError(err) {
			exitCode = ExitFailure
		}
		return outputError(f, exitCode, string(pe.Code), pe.Message+logicalIDSuffix(pe))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return outputError(f, ExitCommandError, ErrCodeNotFound, err.Error())
	}
	return outputError(f, ExitCommandError, ErrCodeGeneric, err.Error())
}

func logicalIDSuffix(pe *engine.PassError) string {
	if pe.LogicalID == "" {
		return ""
	}
	return fmt.Sprintf(" (resource %s)", pe.LogicalID)
}
