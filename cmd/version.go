package cmd

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"red":     style.Fg(color.Red),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Revision" }}    {{ bold .Revision }}
  {{ faint "Built" }}       {{ bold .BuiltAt }} {{ faint "by" }} {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .Platform }}
  {{ faint "Player" }}      {{ if .PlayerPath }}{{ bold .PlayerPath }}{{ else }}{{ red "not found" }}{{ end }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, build metadata and the resolved player binary",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		playerPath, _ := exec.LookPath(viper.GetString(key.PlayerBinary))

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), map[string]string{
			"App":        constant.App,
			"Version":    constant.Version,
			"Revision":   constant.Revision,
			"BuiltAt":    strings.TrimSpace(constant.BuiltAt),
			"BuiltBy":    constant.BuiltBy,
			"Platform":   runtime.GOOS + "/" + runtime.GOARCH,
			"PlayerPath": playerPath,
		}))
	},
}
