package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/kmahadev/cuesync/internal/subtitle"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [caption_file]",
	Short: "Parse a caption file and list its cues",
	Long: `Parse a caption file and print every cue with its id, timeline and
text.

The format is detected from the file extension unless --format is set.

Examples:
  cuesync inspect episode.vtt
  cuesync inspect episode.ass --styles
  cuesync inspect track.txt -f srt`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().
		Bool("styles", false, "Collect ASS/SSA style metadata into cue data")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := resolveFormat(cmd, path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read caption file: %w", err)
	}

	withStyles, _ := cmd.Flags().GetBool("styles")

	var cues []subtitle.Cue
	if withStyles && format == subtitle.FormatASS {
		cues = subtitle.ParseASSStyled(string(content))
	} else {
		cues = subtitle.Parse(string(content), format)
	}

	logger.Infow("Parsed caption file",
		"file", path,
		"format", format,
		"cues", len(cues),
	)

	for _, cue := range cues {
		id := cue.ID
		if id == "" {
			id = "-"
		}
		fmt.Printf("%-6s %s --> %s  %s\n",
			id,
			subtitle.FormatTimestamp(cue.StartTime),
			subtitle.FormatTimestamp(cue.EndTime),
			strings.ReplaceAll(cue.Text, "\n", " / "),
		)
		if cue.Data != nil {
			if style, ok := cue.Data[subtitle.DataKeyStyle].(subtitle.Style); ok {
				fmt.Printf("       style: %s %s %.0fpt %s\n",
					style.Name, style.FontName, style.FontSize, style.PrimaryColor)
			}
		}
	}

	return nil
}
