package cli

import (
	"github.com/kmahadev/cuesync/internal/logging"
	"github.com/kmahadev/cuesync/internal/subtitle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	cfgFile string
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cuesync",
	Short: "Caption track inspector and playback-sync tool",
	Long: `Cuesync loads caption tracks in five formats (VTT, SRT, ASS/SSA,
SBV, JSON), resolves the cue active at any playback timestamp, and
splits over-long cue text into display-sized segments.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
		subtitle.SetLogger(logger)
		initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "Config file (default cuesync.yaml in cwd or home)")
	rootCmd.PersistentFlags().
		StringP("format", "f", "", "Caption format (vtt, srt, ass, sbv, json); detected from the extension when unset")
}

func initConfig() {
	viper.SetDefault("display.height", 0)
	viper.SetDefault("display.max_width", 0)
	viper.SetDefault("display.font_size", 16)
	viper.SetDefault("display.line_height", 1.5)
	viper.SetDefault("display.dwell_seconds", 3.0)
	viper.SetDefault("display.min_dwell_seconds", 1.0)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cuesync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err == nil {
		logger.Debugw("Loaded config", "file", viper.ConfigFileUsed())
	}
}

// resolves the format flag, falling back to extension detection
func resolveFormat(cmd *cobra.Command, path string) (subtitle.Format, error) {
	name, _ := cmd.Flags().GetString("format")
	if name != "" {
		return subtitle.NormalizeFormat(name)
	}
	return subtitle.DetectFormat(path), nil
}
