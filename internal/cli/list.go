package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks known to the orchestrator",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := ListTasks(listStatus)
		if err != nil {
			fmt.Println("Failed to list tasks:", err)
			return
		}
		printJSON(result)
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, processing, completed, failed)")
	rootCmd.AddCommand(listCmd)
}
