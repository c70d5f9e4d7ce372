package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var submitReq TaskRequest

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new audio story synthesis task",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := SubmitTask(submitReq)
		if err != nil {
			fmt.Println("Failed to submit task:", err)
			return
		}
		fmt.Printf("Submitted task %v (status: %v)\n", result["task_id"], result["status"])
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitReq.Name, "name", "", "task name")
	submitCmd.Flags().StringVar(&submitReq.SpeakerWAV, "speaker-wav", "", "path to the voice sample WAV")
	submitCmd.Flags().StringVar(&submitReq.DialogueJSON, "dialogue-json", "", "path to the dialogue script JSON")
	submitCmd.Flags().StringVar(&submitReq.EmotionFolder, "emotion-folder", "", "path to the emotion reference clips folder")
	submitCmd.Flags().StringVar(&submitReq.SourceAudio, "source-audio", "", "path to the source audio WAV")
	submitCmd.Flags().StringVar(&submitReq.ScriptJSON, "script-json", "", "path to the timeline script JSON")
	submitCmd.Flags().StringVar(&submitReq.BGMPath, "bgm", "", "path to the background music WAV")

	for _, flag := range []string{"speaker-wav", "dialogue-json", "emotion-folder", "source-audio", "script-json", "bgm"} {
		_ = submitCmd.MarkFlagRequired(flag)
	}

	rootCmd.AddCommand(submitCmd)
}
