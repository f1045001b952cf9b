package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/config"
	logx "github.com/tanpawarit/Chative-Cake-Order-Agent/pkg/logger"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "cakebot",
		Short:         "Cake order assistant",
		Long:          "cakebot chats with customers, collects the name, cake size, occasion and due date of an order and records it for the pastry chef.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configx.SetEnvFile(envFile)

			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			log.Logger = logx.New(cmd.ErrOrStderr(), *logCfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to a .env file (default ./.env when present)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newChatCmd(),
	)

	return rootCmd
}
