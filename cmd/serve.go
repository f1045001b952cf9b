package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	telegramx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/channel/telegram"
	configx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer customers on Telegram",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// the transport secret is checked before anything else is built
			tgCfg, err := configx.New[telegramx.Config]("TELEGRAM")
			if err != nil {
				return err
			}

			a, err := wireApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			adapter, err := telegramx.New(*tgCfg, a.dispatcher)
			if err != nil {
				return err
			}

			log.Info().Msg("cakebot is serving")
			return adapter.Run(ctx)
		},
	}
}
