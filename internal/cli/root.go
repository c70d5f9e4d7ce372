package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds an explicit --config path, set by the persistent flag
// below and consulted by the service subcommands when installing.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storyctl",
	Short: "storyctl CLI",
	Long:  `A CLI client for the audio story synthesis orchestrator.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.storyctl.yaml)")
}
