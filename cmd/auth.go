package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/tubecycle/tubecycle/auth"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/log"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetKeyCmd)
	authCmd.AddCommand(authDeleteKeyCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the YouTube Data API key",
	Long: `Manage the YouTube Data API key kept in the system keyring.
The youtube.api_key config value (or TUBECYCLE_YOUTUBE_API_KEY) takes precedence over the keyring.`,
}

var authSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store an API key in the system keyring",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var apiKey string
		handleErr(survey.AskOne(&survey.Password{
			Message: "YouTube Data API key:",
			Help:    "Create one at https://console.cloud.google.com/apis/credentials",
		}, &apiKey, survey.WithValidator(survey.Required)))

		handleErr(auth.SetAPIKey(apiKey))
		log.Info("API key stored in keyring")
		fmt.Printf("%s API key saved\n", icon.Get(icon.Success))
	},
}

var authDeleteKeyCmd = &cobra.Command{
	Use:     "delete-key",
	Short:   "Remove the API key from the system keyring",
	Aliases: []string{"remove-key"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteAPIKey())
		fmt.Printf("%s API key removed\n", icon.Get(icon.Success))
	},
}
