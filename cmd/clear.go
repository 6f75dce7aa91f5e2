package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/internal/cache"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/query"
	"github.com/tubecycle/tubecycle/util"
	"github.com/tubecycle/tubecycle/where"
)

// clearTarget is something the clear command can wipe. clear returns an optional detail for the summary line.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	clear    func() (string, error)
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), func() (string, error) {
		return "", util.Delete(where.Cache())
	}},
	{"search results cache", "searches", mo.Some("s"), func() (string, error) {
		size := cache.Size()
		removed := cache.Prune(0)
		return fmt.Sprintf("%s, %s", util.Quantify(removed, "page", "pages"), humanize.Bytes(uint64(size))), nil
	}},
	{"pinned videos", "pins", mo.Some("p"), func() (string, error) {
		return "", pin.Clear()
	}},
	{"queries history", "queries", mo.Some("q"), func() (string, error) {
		return "", query.Clear()
	}},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached searches, query history or pins",
	Run: func(cmd *cobra.Command, args []string) {
		targets := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(targets) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range targets {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			detail, err := target.clear()
			erase()
			handleErr(err)

			if detail != "" {
				detail = " (" + detail + ")"
			}
			fmt.Printf("%s %s cleared%s\n", icon.Get(icon.Success), util.Capitalize(target.name), detail)
		}
	},
}
