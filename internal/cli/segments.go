package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/kmahadev/cuesync/internal/segment"
	"github.com/kmahadev/cuesync/internal/subtitle"
	"github.com/kmahadev/cuesync/internal/track"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments [caption_file]",
	Short: "Show how the active cue splits into display segments",
	Long: `Resolve the cue active at the given time and show the display
segments it splits into for the configured display box, along with the
per-segment dwell time.

Display geometry comes from the display.* config keys and can be
overridden per run with flags.

Examples:
  cuesync segments episode.vtt -t 12 --height 60 --max-width 320
  cuesync segments drama.ass -t 305 --font-size 18`,
	Args: cobra.ExactArgs(1),
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)

	segmentsCmd.Flags().
		Float64P("time", "t", 0, "Playback time in seconds")
	_ = segmentsCmd.MarkFlagRequired("time")

	segmentsCmd.Flags().
		Float64("height", 0, "Display box height in pixels")
	segmentsCmd.Flags().
		Float64("max-width", 0, "Display box max width in pixels")
	segmentsCmd.Flags().
		Float64("font-size", 0, "Font size in pixels")
	segmentsCmd.Flags().
		Float64("dwell", 0, "Default per-segment dwell in seconds")
}

func displayOptions(cmd *cobra.Command) segment.Options {
	opts := segment.Options{
		Enabled:         true,
		Height:          viper.GetFloat64("display.height"),
		MaxWidth:        viper.GetFloat64("display.max_width"),
		FontSize:        viper.GetFloat64("display.font_size"),
		LineHeight:      viper.GetFloat64("display.line_height"),
		DwellSeconds:    viper.GetFloat64("display.dwell_seconds"),
		MinDwellSeconds: viper.GetFloat64("display.min_dwell_seconds"),
	}

	if v, _ := cmd.Flags().GetFloat64("height"); v > 0 {
		opts.Height = v
	}
	if v, _ := cmd.Flags().GetFloat64("max-width"); v > 0 {
		opts.MaxWidth = v
	}
	if v, _ := cmd.Flags().GetFloat64("font-size"); v > 0 {
		opts.FontSize = v
	}
	if v, _ := cmd.Flags().GetFloat64("dwell"); v > 0 {
		opts.DwellSeconds = v
	}

	return opts
}

func runSegments(cmd *cobra.Command, args []string) error {
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

	opts := displayOptions(cmd)
	segs := segment.Split(cue.Text, opts)
	dwell := segment.Dwell(cue.Duration(), len(segs), opts)

	logger.Infow("Segmented active cue",
		"cue", index,
		"segments", len(segs),
		"capacity", opts.Capacity(),
		"dwell_seconds", dwell,
	)

	for i, seg := range segs {
		fmt.Printf("[%d/%d] (width %.2f) %s\n",
			i+1, len(segs), segment.TextWidth(seg), seg)
	}
	fmt.Printf("dwell: %.2fs per segment\n", dwell)

	return nil
}
