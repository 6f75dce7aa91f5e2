// Package cmd implements the command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/tui"
	"github.com/tubecycle/tubecycle/util"
	"github.com/tubecycle/tubecycle/version"
	"github.com/tubecycle/tubecycle/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	addTimingFlags(rootCmd)
	rootCmd.Flags().Bool("pinned", false, "Open the pinned videos instead of the search prompt")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Play YouTube videos in short bursts with automatic pauses",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Play YouTube videos in short bursts with automatic pauses"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		cfg, err := timing(cmd)
		handleErr(err)

		CheckDependencies()

		options := tui.Options{
			Timing: cfg,
			Pinned: lo.Must(cmd.Flags().GetBool("pinned")),
		}
		handleErr(tui.Run(&options))
	},
}

// addTimingFlags registers --play and --pause, which override the configured cycle.
func addTimingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("play", "P", 0, "Seconds of playback per cycle")
	cmd.Flags().Float64P("pause", "p", 0, "Seconds of pause per cycle")
}

// timing resolves the cycle from flags, falling back to the config.
func timing(cmd *cobra.Command) (timer.Config, error) {
	play := viper.GetFloat64(key.TimerPlaySeconds)
	if cmd.Flags().Changed("play") {
		play = lo.Must(cmd.Flags().GetFloat64("play"))
	}

	pause := viper.GetFloat64(key.TimerPauseSeconds)
	if cmd.Flags().Changed("pause") {
		pause = lo.Must(cmd.Flags().GetFloat64("pause"))
	}

	cfg := timer.FromSeconds(play, pause)
	return cfg, cfg.Validate()
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
