package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confkit/confkit/internal/corerr"
)

// validateCmd resolves the active configuration and runs
// instance.Validate against it, returning a non-zero exit code on the
// first failing state of the schema validator's state machine, or on a
// security finding severe enough to trip the active profile's
// fail-on-error policy.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Resolve the configuration and validate it against the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := instance.Read(configDirectory())
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			PrintError("warning: "+w, nil)
		}
		if err := instance.Validate(result.Value); err != nil {
			return err
		}

		for _, ev := range result.SecurityFindings {
			PrintError(fmt.Sprintf("security[%s]: %s (%s)", ev.Severity, ev.Details, ev.Field), nil)
		}
		if instance.Security().ShouldFail(result.SecurityFindings) {
			return corerr.New(corerr.CodeValidation, "security validator rejected the configuration")
		}

		if isJSON() {
			return printJSON(map[string]any{"ok": true, "securityFindings": result.SecurityFindings})
		}
		fmt.Println("configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
