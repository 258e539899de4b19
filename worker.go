package main

import (
	"context"
	"os/signal"
	"syscall"

	"beautybook/cron"
	"beautybook/utils"

	"github.com/spf13/cobra"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process appointment reminder tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := utils.GetLogger()
			notifier, err := newNotifier(ctx, logger)
			if err != nil {
				return err
			}
			return cron.RunReminderWorker(ctx, notifier, logger)
		},
	}
}
