package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tubecycle/tubecycle/clock"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/player"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/tui"
	"github.com/tubecycle/tubecycle/util"
	"github.com/tubecycle/tubecycle/youtube"
)

func init() {
	rootCmd.AddCommand(watchCmd)
	addTimingFlags(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [id or url]",
	Short: "Play a video with the cycle running, without the interactive interface",
	Long: `Start mpv on a single video and run the pause/resume cycle until mpv exits.
The current phase and countdown are printed on one line. Ctrl+C closes mpv.`,
	Args:    cobra.ExactArgs(1),
	Example: "  tubecycle watch dQw4w9WgXcQ -P 2 -p 8",
	Run: func(cmd *cobra.Command, args []string) {
		id, err := youtube.ParseVideoID(args[0])
		handleErr(err)

		cfg, err := timing(cmd)
		handleErr(err)

		CheckDependencies()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handleErr(watch(ctx, &youtube.Video{ID: id, Title: lookupTitle(ctx, id)}, cfg))
	},
}

// lookupTitle asks the Data API for the title, falling back to the id without a key.
func lookupTitle(ctx context.Context, id string) string {
	client, err := newYouTubeClient(ctx)
	if err != nil {
		log.Warnf("title lookup: %v", err)
		return id
	}

	video, err := client.Video(ctx, id)
	if err != nil {
		log.Warnf("title lookup: %v", err)
		return id
	}
	return video.Title
}

func watch(ctx context.Context, video *youtube.Video, cfg timer.Config) error {
	p := player.NewMPV()
	if err := p.Play(video.URL(), video.Title); err != nil {
		return fmt.Errorf("play %s: %w", video.ID, err)
	}
	defer util.Ignore(p.Close)

	cycle, err := timer.New(p, cfg, clock.System)
	if err != nil {
		return err
	}
	defer cycle.Close()

	snapshots, unsubscribe := cycle.Subscribe()
	defer unsubscribe()

	if err := cycle.Arm(cfg); err != nil {
		return err
	}

	fmt.Printf("%s %s %s\n", icon.Get(icon.Play), video.Title, style.Faint("("+cfg.String()+")"))

	erase := func() {}
	defer func() { erase() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.Wait():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			erase()
			erase = util.PrintErasable(tui.StatusLine(snap))
		}
	}
}
