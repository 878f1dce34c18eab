package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version.
// Set via ldflags at build time: -ldflags "-X github.com/confkit/confkit/cmd.version=1.0.0"
// Defaults to "dev" for local development builds.
var version = "dev"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "confkit",
	Short: "confkit - hierarchical configuration core for CLI tools",
	Long: `confkit discovers, loads, merges, and validates a tool's configuration
from a directory hierarchy, and exposes the same capability both as CLI
flags and as MCP tools for AI assistants.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case viper.GetBool("init-config"):
			return runInitConfig()
		case viper.GetBool("check-config"):
			return runConfigShow()
		case len(args) == 0:
			_ = cmd.Help()
			return nil
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	rootCmd.SuggestionsMinimumDistance = 2

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.SetHelpTemplate(`{{if .Long}}
{{.Long}}
{{else}}
 {{.Short}}
{{end}}
 Usage: {{.UseLine}}
{{if .HasAvailableSubCommands}}
 Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}} {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}
 Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

 Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

// GetVersion returns the application version.
func GetVersion() string { return version }

// exitCodeFor maps a returned error to one of exit codes: 0
// success, 1 validation failure, 2 filesystem failure, 3 argument error.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "configuration/validation"), strings.Contains(msg, "configuration/extra_keys"), strings.Contains(msg, "configuration/schema"):
		return 1
	case strings.Contains(msg, "filesystem/"):
		return 2
	case strings.Contains(msg, "argument/invalid"):
		return 3
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}
