package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "supertonic",
		Short:         "Supertonic text-to-speech",
		Long:          "Provision the Supertonic 2 model and synthesize speech to WAV files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags().Changed("config"))
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigFile(), "Path to config file (YAML or TOML)")

	cmd.AddCommand(
		newDownloadCommand(a),
		newSayCommand(a),
		newVoicesCommand(),
		newServeCommand(a),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
