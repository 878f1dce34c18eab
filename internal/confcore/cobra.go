package confcore

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configure implements instance.configure(command_builder):
// it registers the CLI surface's configuration flags on rootCmd and binds
// each to Viper so an env var (CONFKIT_CONFIG_DIRECTORY, …) and the flag
// share one source of truth.
func Configure(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("config-directory", "", "Directory to start hierarchical configuration discovery from (defaults to the current directory)")
	rootCmd.PersistentFlags().String("config-file", "", "Explicit configuration file name to load instead of searching the naming patterns")
	rootCmd.PersistentFlags().String("config-format", "", "Force a configuration format instead of inferring it from the file extension")
	rootCmd.PersistentFlags().Bool("check-config", false, "Print the resolved configuration and exit")
	rootCmd.PersistentFlags().Bool("init-config", false, "Write a starter configuration file and exit")

	_ = viper.BindPFlag("config-directory", rootCmd.PersistentFlags().Lookup("config-directory"))
	_ = viper.BindPFlag("config-file", rootCmd.PersistentFlags().Lookup("config-file"))
	_ = viper.BindPFlag("config-format", rootCmd.PersistentFlags().Lookup("config-format"))
	_ = viper.BindPFlag("check-config", rootCmd.PersistentFlags().Lookup("check-config"))
	_ = viper.BindPFlag("init-config", rootCmd.PersistentFlags().Lookup("init-config"))
}
