package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loopinhq/loopin-go/internal/service"
)

var chatCmd = &cobra.Command{
	Use:   "chat <project-id> <message...>",
	Short: "Send one chat turn and stream the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getModel()
		if err != nil {
			return err
		}

		chat := service.NewChatService(dbClient, m, logger)
		message := strings.Join(args[1:], " ")

		events, err := chat.HandleUserTurn(cmd.Context(), args[0], message)
		if err != nil {
			return err
		}

		for ev := range events {
			switch {
			case ev.Err != nil:
				fmt.Println()
				return ev.Err
			case ev.Done:
				fmt.Println()
				return nil
			default:
				fmt.Print(ev.Content)
			}
		}
		return nil
	},
}
