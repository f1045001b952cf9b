package cmd

import (
	"github.com/spf13/cobra"

	consolex "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/channel/console"
)

func newChatCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := wireApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			adapter, err := consolex.New(cmd.InOrStdin(), cmd.OutOrStdout(), userID, a.dispatcher)
			if err != nil {
				return err
			}
			return adapter.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&userID, "user", consolex.DefaultUserID, "User id the conversation is stored under")

	return cmd
}
