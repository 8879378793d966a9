package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/razanlang/razan/pkg/config"
	"github.com/razanlang/razan/pkg/policy"
	"github.com/razanlang/razan/pkg/telemetry"
	"github.com/spf13/cobra"
)

// errValidationFailed is returned after findings have been printed.
var errValidationFailed = errors.New("validation failed")

type validateReport struct {
	Source  string                   `json:"source"`
	Valid   bool                     `json:"valid"`
	Schemas []config.ValidationError `json:"schema_errors,omitempty"`
	Policy  *policy.Result           `json:"policy,omitempty"`
}

func newValidateCommand(opts *options) *cobra.Command {
	var (
		schemas    []string
		policies   []string
		noBuiltins bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration against CUE schemas and Rego policies",
		Long: `Check the configuration against CUE schemas and Rego policies.

This command checks:
  - document shape (scalar values and flat sections)
  - each --schema file, unified with the document's #Document definition
    when the schema defines one
  - the built-in policies (empty-values, key-naming) and every --policy
    file or directory

Policy findings of error or critical severity fail validation. With
--strict, warnings fail it too.`,
		Example: `  # Shape and built-in policies only
  razan validate

  # Custom schema and policies
  razan validate --schema app.cue --policy ./policies

  # Treat warnings as failures
  razan validate --strict --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, ctx, cleanup, err := opts.setup(cmd, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			doc, err := opts.load(ctx, tel)
			if err != nil {
				return err
			}

			report := validateReport{Source: doc.Source, Valid: true}

			registry := config.NewSchemaRegistry()
			checks := []string{"document"}
			for _, path := range schemas {
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				if err := registry.RegisterSchemaFile(name, path); err != nil {
					return err
				}
				checks = append(checks, name)
			}

			for _, name := range checks {
				err := registry.ValidateDocument(ctx, name, doc)
				var verrs config.ValidationErrors
				switch {
				case errors.As(err, &verrs):
					report.Schemas = append(report.Schemas, verrs...)
					report.Valid = false
				case err != nil:
					return err
				}
			}

			engine, err := policy.NewEngine(tel.Logger)
			if err != nil {
				return err
			}
			if noBuiltins {
				for _, p := range policy.GetBuiltinPolicies() {
					if err := engine.DisablePolicy(p.Name); err != nil {
						return err
					}
				}
			}
			if len(policies) > 0 {
				if err := engine.LoadPolicies(ctx, policies); err != nil {
					return err
				}
			}

			op := tel.Begin(ctx, telemetry.SpanPolicy,
				telemetry.AttrSource.String(doc.Source),
				telemetry.AttrPolicyCount.Int(len(engine.ListPolicies())),
			)
			result, err := engine.Evaluate(op.Context(), doc)
			if err == nil {
				op.Set(telemetry.AttrViolations.Int(len(result.All())))
			}
			op.End(err)
			if err != nil {
				return err
			}

			for _, v := range result.All() {
				tel.Metrics.RecordPolicyViolation(v.Policy, string(v.Severity))
			}

			report.Policy = result
			if !result.Allowed || len(result.Errors) > 0 || (strict && len(result.Warnings) > 0) {
				report.Valid = false
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}

			if !report.Valid {
				return errValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&schemas, "schema", nil, "CUE schema file (repeatable)")
	cmd.Flags().StringSliceVar(&policies, "policy", nil, "Rego policy file or directory (repeatable)")
	cmd.Flags().BoolVar(&noBuiltins, "no-builtin-policies", false, "disable the built-in policies")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on policy warnings")

	return cmd
}

func printReport(w io.Writer, r validateReport) {
	for _, e := range r.Schemas {
		fmt.Fprintf(w, "schema  %s\n", e.Error())
	}
	if r.Policy != nil {
		for _, v := range r.Policy.All() {
			label := v.Message
			if v.Path != "" && !strings.Contains(label, v.Path) {
				label = v.Path + ": " + label
			}
			fmt.Fprintf(w, "%-8s%s (%s)\n", v.Severity, label, v.Policy)
		}
		for _, e := range r.Policy.Errors {
			fmt.Fprintf(w, "policy  %s\n", e)
		}
	}

	if r.Valid {
		fmt.Fprintf(w, "%s: ok\n", r.Source)
	} else {
		fmt.Fprintf(w, "%s: invalid\n", r.Source)
	}
}
