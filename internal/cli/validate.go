package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cfnamer/cfnamer/internal/engine"
	"github.com/cfnamer/cfnamer/internal/template"
	"github.com/cfnamer/cfnamer/internal/typeid"
)

// ValidationIssue is one problem found in a template or configuration.
type ValidationIssue struct {
	Code      string `json:"code"`
	LogicalID string `json:"logical_id,omitempty"`
	Message   string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Issues    []ValidationIssue `json:"issues,omitempty"`
	Unmatched []string          `json:"unmatched_types,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigFlags{}

	cmd := &cobra.Command{
		Use:   "validate <template>",
		Short: "Validate a template against the naming rules without writing",
		Long: `Validate type tags and configuration without touching the template.

Unlike apply, validate collects every problem instead of stopping at the
first one, and reports resource types that have no naming rule.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, args[0], cmd)
		},
	}

	opts.Register(cmd)
	return cmd
}

func runValidate(rootOpts *RootOptions, opts *ConfigFlags, templatePath string, cmd *cobra.Command) error {
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

	tpl, err := template.Load(templatePath)
	if err != nil {
		return outputError(formatter, ExitCommandError, ErrCodeTemplate, err.Error())
	}
	formatter.VerboseLog("loaded %d resource(s) from %s", len(tpl.Resources), templatePath)

	result := ValidationResult{Valid: true}
	if err := cfg.Validate(); err != nil {
		result.Issues = append(result.Issues, ValidationIssue{
			Code:    string(engine.ErrCodeInvalidConfig),
			Message: err.Error(),
		})
	}

	unmatched := map[string]bool{}
	for logicalID, res := range tpl.Resources {
		if res == nil || res.Type == "" {
			result.Issues = append(result.Issues, ValidationIssue{
				Code:      string(engine.ErrCodeMissingTypeTag),
				LogicalID: logicalID,
				Message:   "declaration has no type tag",
			})
			continue
		}
		id, err := typeid.Parse(res.Type)
		if err != nil {
			result.Issues = append(result.Issues, ValidationIssue{
				Code:      string(engine.ErrCodeInvalidTypeTag),
				LogicalID: logicalID,
				Message:   err.Error(),
			})
			continue
		}
		if _, ok := table.Find(id); !ok {
			unmatched[res.Type] = true
		}
	}
	for tag := range unmatched {
		result.Unmatched = append(result.Unmatched, tag)
	}
	sort.Strings(result.Unmatched)
	sort.Slice(result.Issues, func(i, j int) bool {
		return result.Issues[i].LogicalID < result.Issues[j].LogicalID
	})
	result.Valid = len(result.Issues) == 0

	if !result.Valid {
		return outputValidationIssues(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, "✓ Template valid")
	for _, tag := range result.Unmatched {
		fmt.Fprintf(formatter.Writer, "  note: no naming rule for %s\n", tag)
	}
	return nil
}

func outputValidationIssues(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		_ = formatter.Success(result)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range result.Issues {
		if issue.LogicalID != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", issue.Code, issue.LogicalID, issue.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
}
