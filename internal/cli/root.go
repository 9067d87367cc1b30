// internal/cli/root.go
package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "discord-jira-bot",
		Short:         "Jira commands and notifications for Discord",
		Long:          "discord-jira-bot answers /jira commands in Discord and relays Jira webhook events to a channel.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveWorker bool

	serveHandler  = handleServe
	workerHandler = handleWorker
	queryHandler  = handleQuery
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	serveCmd.Flags().BoolVar(&serveWorker, "worker", true,
		"Send notifications from this process; disable to only publish them to redis")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(queryCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and listen for Jira webhooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveHandler(cmd.Context(), serveOptions{Worker: serveWorker})
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Send notifications published by serve --worker=false",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return workerHandler(cmd.Context())
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <command> [argument...]",
	Short: "Run a /jira command once and print the reply",
	Example: "  discord-jira-bot query ver ABC-123\n" +
		"  discord-jira-bot query pendientes jdoe",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return queryHandler(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:])
	},
}
