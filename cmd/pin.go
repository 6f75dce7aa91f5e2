package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/youtube"
)

func init() {
	rootCmd.AddCommand(pinCmd)
}

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Manage pinned videos and their saved timing",
}

func completionPinnedIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	pins, err := pin.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(pins, func(p *pin.PinnedVideo, _ int) string {
		return p.VideoID + "\t" + p.Title
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	pinCmd.AddCommand(pinListCmd)

	pinListCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	pinListCmd.Flags().BoolP("raw", "r", false, "Print only video ids")
	pinListCmd.MarkFlagsMutuallyExclusive("json", "raw")
	pinListCmd.SetOut(os.Stdout)
}

var pinListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List pinned videos, oldest first",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		pins, err := pin.List()
		handleErr(err)

		switch {
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(pins))
		case lo.Must(cmd.Flags().GetBool("raw")):
			for _, p := range pins {
				cmd.Println(p.VideoID)
			}
		default:
			if len(pins) == 0 {
				cmd.Println(style.Faint("No pinned videos"))
				return
			}

			for _, p := range pins {
				cmd.Printf("%s %s %s %s %s\n",
					style.Fg(color.Yellow)(p.VideoID),
					style.Fg(color.Purple)(p.Title),
					style.Fg(color.Green)(fmt.Sprintf("play %gs", p.PlaySeconds)),
					style.Fg(color.Red)(fmt.Sprintf("pause %gs", p.PauseSeconds)),
					style.Faint("pinned "+humanize.Time(p.PinnedAt)),
				)
			}
		}
	},
}

func init() {
	pinCmd.AddCommand(pinAddCmd)

	pinAddCmd.Flags().Float64("play", 0, "Seconds of playback per cycle (defaults to timer.play_seconds)")
	pinAddCmd.Flags().Float64("pause", 0, "Seconds of pause per cycle (defaults to timer.pause_seconds)")
	pinAddCmd.Flags().StringP("title", "t", "", "Title to save. Looked up on YouTube when omitted")
}

var pinAddCmd = &cobra.Command{
	Use:     "add [id or url]",
	Short:   "Pin a video with a cycle timing",
	Args:    cobra.ExactArgs(1),
	Example: "  tubecycle pin add https://youtu.be/dQw4w9WgXcQ --play 3 --pause 7",
	Run: func(cmd *cobra.Command, args []string) {
		id, err := youtube.ParseVideoID(args[0])
		handleErr(err)

		play := viper.GetFloat64(key.TimerPlaySeconds)
		if cmd.Flags().Changed("play") {
			play = lo.Must(cmd.Flags().GetFloat64("play"))
		}
		pause := viper.GetFloat64(key.TimerPauseSeconds)
		if cmd.Flags().Changed("pause") {
			pause = lo.Must(cmd.Flags().GetFloat64("pause"))
		}
		cfg := timer.FromSeconds(play, pause)
		handleErr(cfg.Validate())

		title := lo.Must(cmd.Flags().GetString("title"))
		if title == "" {
			client, err := newYouTubeClient(cmd.Context())
			handleErr(err)

			video, err := client.Video(cmd.Context(), id)
			handleErr(err)
			title = video.Title
		}

		handleErr(pin.Pin(pin.PinnedVideo{
			VideoID:      id,
			Title:        title,
			PlaySeconds:  cfg.PlaySeconds(),
			PauseSeconds: cfg.PauseSeconds(),
		}))

		fmt.Printf("%s pinned %s %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(title),
			style.Faint("("+cfg.String()+")"),
		)
	},
}

func init() {
	pinCmd.AddCommand(pinRemoveCmd)
}

var pinRemoveCmd = &cobra.Command{
	Use:               "remove [id]",
	Short:             "Unpin a video. Prompts for one when no id is given",
	Aliases:           []string{"rm"},
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionPinnedIDs,
	Run: func(cmd *cobra.Command, args []string) {
		var id string

		if len(args) == 1 {
			parsed, err := youtube.ParseVideoID(args[0])
			handleErr(err)
			id = parsed
		} else {
			pins, err := pin.List()
			handleErr(err)

			if len(pins) == 0 {
				handleErr(errors.New("no pinned videos"))
			}

			var index int
			handleErr(survey.AskOne(&survey.Select{
				Message: "Unpin which video?",
				Options: lo.Map(pins, func(p *pin.PinnedVideo, _ int) string {
					return p.String()
				}),
			}, &index))
			id = pins[index].VideoID
		}

		found, err := pin.Find(id)
		handleErr(err)
		if !found.IsPresent() {
			handleErr(fmt.Errorf("%s is not pinned", id))
		}

		handleErr(pin.Unpin(id))
		fmt.Printf("%s unpinned %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(found.MustGet().Title))
	},
}

func init() {
	pinCmd.AddCommand(pinClearCmd)
	pinClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var pinClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Unpin every video",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Remove all pinned videos?",
				Default: false,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		handleErr(pin.Clear())
		fmt.Printf("%s removed all pins\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
