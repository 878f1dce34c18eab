package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confkit/confkit/internal/corerr"
	"github.com/confkit/confkit/internal/resolver"
)

// doctorCmd resolves the active configuration the same way the MCP
// check-config tool does and prints a sanitized per-field provenance
// report, so a user can diagnose a configuration the same way an AI
// assistant driving the MCP server would see it.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the resolved configuration (sanitized provenance report)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func fileConfigResolver(dir string) (resolver.FileConfigResult, error) {
	result, err := instance.Read(dir)
	if err != nil {
		return resolver.FileConfigResult{}, err
	}
	return resolver.FileConfigResult{Value: result.Value, Parents: result.ResolvedConfigDirs}, nil
}

func runDoctor() error {
	resolved, err := resolver.Resolve(resolver.InvocationContext{
		WorkingDirectory: configDirectory(),
	}, resolver.Config{
		Schema:            instance.Descriptor(),
		ResolveFileConfig: fileConfigResolver,
		Security:          instance.Security(),
	})
	if err != nil {
		return err
	}

	report := resolver.CheckConfig(resolved, isVerbose(), instance.Security())
	shouldFail := instance.Security().ShouldFail(resolved.SecurityFindings)

	if isJSON() {
		return printJSON(map[string]any{
			"source":                 resolved.Source,
			"hierarchical":           resolved.Hierarchical,
			"parents":                resolved.Parents,
			"resolution_explanation": resolved.ResolutionExplanation,
			"provenance":             report.Provenance,
			"warnings":               report.Warnings,
			"security_findings":      resolved.SecurityFindings,
			"security_should_fail":   shouldFail,
		})
	}

	fmt.Println(resolved.ResolutionExplanation)
	for _, w := range report.Warnings {
		fmt.Printf("warning: %s\n", w.Details)
	}
	for _, p := range report.Provenance {
		fmt.Printf(" %s = %s (%s)\n", p.Field, p.SanitizedValue, p.Source)
	}
	for _, ev := range resolved.SecurityFindings {
		fmt.Printf("security[%s]: %s (%s)\n", ev.Severity, ev.Details, ev.Field)
	}
	if shouldFail {
		return corerr.New(corerr.CodeValidation, "security validator rejected the resolved configuration")
	}
	return nil
}
