package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "qrdocs: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrdocs",
		Short: "QR document portal",
		Long: `qrdocs serves the QR document portal: scan documents for an employee QR code,
embed one when missing, list employees and render verification certificates.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $PORTAL_CONFIG)")
	cmd.AddCommand(
		newServeCmd(),
		newListCmd(),
		newVerifyCmd(),
		newScanCmd(),
		newAddCmd(),
	)
	return cmd
}
