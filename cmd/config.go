package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/confkit/confkit/internal/confcore"
	"github.com/confkit/confkit/internal/corelog"
	"github.com/confkit/confkit/internal/discovery"
	"github.com/confkit/confkit/internal/fsx"
	"github.com/confkit/confkit/internal/merge"
	"github.com/confkit/confkit/internal/schema"
	"github.com/confkit/confkit/internal/security"
	"github.com/confkit/confkit/types"
)

const (
	appName   = "confkit"
	envPrefix = "CONFKIT"
)

// instance is the process-wide confcore.Instance, built once initConfig has
// read the --verbose flag and the security profile setting.
var instance *confcore.Instance

func init() {
	confcore.Configure(rootCmd)
}

// initConfig builds the confcore.Instance once Cobra/Viper flags are
// parsed: environment handling set up first, then an instance built from
// the resolved flags.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	logLevel := slog.LevelInfo
	if viper.GetBool("verbose") {
		logLevel = corelog.VerboseLevel()
	}
	logger := corelog.NewSlog(os.Stderr, logLevel)

	profile := security.ProfileDevelopment
	if viper.GetString("confkit_profile") == "production" {
		profile = security.ProfileProduction
	}

	instance = confcore.Create(confcore.Options{
		AppName:    appName,
		FS:         fsx.Afero{FS: afero.NewOsFs()},
		Descriptor: schema.NewStructSchema(types.AppConfig{}),
		Discovery: discovery.Options{
			ConfigDirName: "." + appName,
			Mode:          discovery.ModeEnabled,
		},
		Overlap:  merge.OverlapTable{},
		Security: security.DefaultConfig(profile),
		Logger:   logger,
	})
}

func configDirectory() string {
	if dir := viper.GetString("config-directory"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Resolve and print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}

func runConfigShow() error {
	result, err := instance.Read(configDirectory())
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		PrintError("warning: "+w, nil)
	}
	for _, ev := range result.SecurityFindings {
		PrintError(fmt.Sprintf("security[%s]: %s (%s)", ev.Severity, ev.Details, ev.Field), nil)
	}
	return printJSON(result.Value.ToMap())
}

func runInitConfig() error {
	path, err := confcore.WriteStarterConfig(afero.NewOsFs(), configDirectory(), appName)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(map[string]any{"path": path})
	}
	fmt.Println("wrote starter configuration:", path)
	return nil
}
