package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/kmahadev/cuesync/internal/subtitle"
	"github.com/kmahadev/cuesync/internal/track"
	"github.com/spf13/cobra"
)

var atCmd = &cobra.Command{
	Use:   "at [caption_file]",
	Short: "Resolve the cue active at a playback timestamp",
	Long: `Load a caption file into the sync engine and print the cue whose
interval covers the given time.

Examples:
  cuesync at episode.srt --time 42.5
  cuesync at episode.ass -t 125`,
	Args: cobra.ExactArgs(1),
	RunE: runAt,
}

func init() {
	rootCmd.AddCommand(atCmd)

	atCmd.Flags().
		Float64P("time", "t", 0, "Playback time in seconds")
	_ = atCmd.MarkFlagRequired("time")
}

func runAt(cmd *cobra.Command, args []string) error {
	path := args[0]
	t, _ := cmd.Flags().GetFloat64("time")

	format, err := resolveFormat(cmd, path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read caption file: %w", err)
	}

	engine := track.New(track.WithLogger(logger))
	if err := engine.Load(context.Background(), track.Source{
		Content: string(content),
		Format:  format,
	}); err != nil {
		return fmt.Errorf("failed to load cue track: %w", err)
	}

	cue, index := engine.GetCueAtTime(t)
	if cue == nil {
		fmt.Printf("no cue active at %s\n", subtitle.FormatTimestamp(t))
		return nil
	}

	fmt.Printf("cue %d: %s --> %s\n%s\n",
		index,
		subtitle.FormatTimestamp(cue.StartTime),
		subtitle.FormatTimestamp(cue.EndTime),
		cue.Text,
	)

	return nil
}
