package main

import (
	"os"

	"beautybook/config"
	"beautybook/utils"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "beautybook",
		Short:         "BeautyBook booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newTokenCmd())

	if err := root.Execute(); err != nil {
		utils.GetLogger().Sugar().Errorf("main: %v", err)
		os.Exit(1)
	}
}
