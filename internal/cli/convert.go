package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmahadev/cuesync/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input_file] [output_file]",
	Short: "Convert a caption file to another format",
	Long: `Parse a caption file and write it back out in the format named by
the output file's extension. SRT, VTT and ASS are writable targets.

Examples:
  cuesync convert episode.sbv episode.srt
  cuesync convert episode.ass episode.vtt`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	inFormat, err := resolveFormat(cmd, inPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read caption file: %w", err)
	}

	cues := subtitle.Parse(string(content), inFormat)
	if len(cues) == 0 {
		return fmt.Errorf("no cues parsed from %s", inPath)
	}

	outFormat := subtitle.DetectFormat(outPath)
	writer, err := subtitle.NewWriter(outFormat)
	if err != nil {
		return err
	}

	if err := writer.Write(cues, outPath); err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	logger.Infow("Converted caption file",
		"input", inPath,
		"output", outPath,
		"from", inFormat,
		"to", outFormat,
		"cues", len(cues),
	)

	absOutput, _ := filepath.Abs(outPath)
	fmt.Printf("Converted successfully: %s\n", absOutput)

	return nil
}
