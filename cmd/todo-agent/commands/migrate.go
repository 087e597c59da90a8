package commands

import (
	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-agent/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoad(cmd, cmd.OutOrStdout())

		store := app.MustOpenStore(cmd.Context(), cfg)
		defer app.CloseStore(store)

		app.MustMigrate(cmd.Context(), store)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
