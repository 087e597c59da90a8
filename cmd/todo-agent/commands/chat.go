package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-agent/internal/agent"
	"github.com/adanyl0v/go-todo-agent/internal/app"
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the chat assistant",
	Long: `Send one message to the chat assistant and print the exchange as JSON.

Example:
  todo-agent chat "add a task to buy milk tomorrow, high priority"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID, _ := cmd.Flags().GetString("conversation-id")
		cfg := mustLoad(cmd, cmd.ErrOrStderr())

		a := app.MustBuild(cmd.Context(), cfg)
		defer a.Close()

		exchange := a.Agent.Handle(cmd.Context(), strings.Join(args, " "), conversationID)
		return printExchange(cmd, exchange)
	},
}

func init() {
	chatCmd.Flags().String("conversation-id", "", "Conversation id to echo back")
	rootCmd.AddCommand(chatCmd)
}

type taskOutput struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Priority string  `json:"priority"`
	DueDate  *string `json:"due_date,omitempty"`
}

type exchangeOutput struct {
	Response       string       `json:"response"`
	ConversationID string       `json:"conversation_id"`
	TasksAffected  []taskOutput `json:"tasks_affected"`
	ActionType     string       `json:"action_type"`
}

func printExchange(cmd *cobra.Command, exchange *agent.Exchange) error {
	out := exchangeOutput{
		Response:       exchange.Response,
		ConversationID: exchange.ConversationID,
		TasksAffected:  make([]taskOutput, 0, len(exchange.TasksAffected)),
		ActionType:     exchange.ActionType,
	}
	for _, task := range exchange.TasksAffected {
		t := taskOutput{
			ID:       task.ID,
			Title:    task.Title,
			Status:   string(task.Status),
			Priority: string(task.Priority),
		}
		if task.DueDate != nil {
			due := task.DueDate.Format("2006-01-02 15:04")
			t.DueDate = &due
		}
		out.TasksAffected = append(out.TasksAffected, t)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding exchange: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
