package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	configureServerURL string
	configureToken     string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save the orchestrator server URL and auth token",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := SaveConfig(configureServerURL, configureToken)
		if err != nil {
			fmt.Println("Failed to save config:", err)
			return
		}
		fmt.Println("Saved configuration to", path)
	},
}

func init() {
	configureCmd.Flags().StringVar(&configureServerURL, "server-url", "", "orchestrator server URL, e.g. http://localhost:8080")
	configureCmd.Flags().StringVar(&configureToken, "token", "", "bearer token, if the server has auth enabled")
	rootCmd.AddCommand(configureCmd)
}
