package commands

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-agent/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the REST API, the chat endpoint, the websocket echo and the
prometheus /metrics endpoint until SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoad(cmd, cmd.OutOrStdout())

		a := app.MustBuild(cmd.Context(), cfg)
		defer a.Close()

		app.MustListenAndServeHTTP(a)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
