package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tubecycle/tubecycle/auth"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/filesystem"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/query"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/youtube"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	searchCmd.Flags().StringP("page-token", "t", "", "Fetch the page identified by a previous next/prev token")
	searchCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search YouTube without the interactive interface",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Example: "  tubecycle search lofi hip hop --json",
	Run: func(cmd *cobra.Command, args []string) {
		q := strings.TrimSpace(strings.Join(args, " "))

		var (
			writer io.Writer = os.Stdout
			err    error
		)
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		}

		client, err := newYouTubeClient(cmd.Context())
		handleErr(err)

		page, err := client.Search(cmd.Context(), q, lo.Must(cmd.Flags().GetString("page-token")))
		handleErr(err)

		if err := query.Remember(q, 1); err != nil {
			log.Warnf("remember query: %v", err)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(writer).Encode(page))
			return
		}

		printPage(writer, page)
	},
}

func newYouTubeClient(ctx context.Context) (*youtube.Client, error) {
	apiKey, err := auth.APIKey()
	if err != nil {
		return nil, fmt.Errorf("%w (set one with \"tubecycle auth set-key\")", err)
	}
	return youtube.NewClient(ctx, apiKey)
}

func printPage(w io.Writer, page *youtube.Page) {
	if len(page.Videos) == 0 {
		_, _ = fmt.Fprintln(w, style.Faint("No results"))
		return
	}

	_, _ = fmt.Fprintln(w, style.Faint(fmt.Sprintf("about %s results", humanize.Comma(page.TotalResults))))

	for i, v := range page.Videos {
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			style.Faint(fmt.Sprintf("%2d.", i+1)),
			style.Fg(color.Purple)(v.Title),
			style.Faint("("+v.Channel+")"),
		)
		_, _ = fmt.Fprintf(w, "    %s\n", v.URL())
	}

	if page.HasPrev() {
		_, _ = fmt.Fprintf(w, "\n%s %s", style.Faint("prev page:"), style.Fg(color.Yellow)(page.PrevPageToken))
	}
	if page.HasNext() {
		_, _ = fmt.Fprintf(w, "\n%s %s", style.Faint("next page:"), style.Fg(color.Yellow)(page.NextPageToken))
	}
	if page.HasPrev() || page.HasNext() {
		_, _ = fmt.Fprintln(w)
	}
}

func init() {
	searchCmd.AddCommand(searchSchemaCmd)
}

var searchSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the search --json output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "page", "video":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&youtube.Page{})))
	},
}
