package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "boxcat",
	Short: "Serve a catalog of versioned box metadata over HTTP",
	Long: `boxcat serves a directory of per-version box description files
(*.metadata.json) as a JSON catalog API, and the artifact files referenced
by those descriptions as plain static files from the same directory.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Load .env if present; environment always wins over .env.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix("BOXCAT")
	viper.AutomaticEnv()
}
