package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a completed or failed task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := DeleteTask(args[0]); err != nil {
			fmt.Println("Failed to delete task:", err)
			return
		}
		fmt.Println("Deleted task", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
