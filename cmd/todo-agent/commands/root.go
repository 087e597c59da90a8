// Package commands implements the todo-agent CLI commands using cobra.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-agent/internal/app"
	"github.com/adanyl0v/go-todo-agent/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "todo-agent",
	Short: "Task management API with a chat assistant",
	Long: `todo-agent serves a task management REST API together with a chat
endpoint that understands requests like "add a task to buy milk tomorrow"
or "mark buy milk as done".

Configuration is read from the environment (and .env), or from the YAML
file given by --config or CONFIG_PATH.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// mustLoad sets up logging on logs and reads the config named by the
// --config flag. Commands printing results on stdout pass stderr.
func mustLoad(cmd *cobra.Command, logs io.Writer) *config.Config {
	path, _ := cmd.Flags().GetString("config")

	app.InitDefaultLogger(logs)
	cfg := app.MustReadConfig(path)
	app.MustInitApplicationLogger(cfg.Env, logs)
	return cfg
}
