// tenupctl is the maintenance companion to the search server: it seeds
// the credential store with a token bundle, runs one-shot API queries,
// and refreshes the web session cookies on demand.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tenup-padel-service/internal/config"
	"tenup-padel-service/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	cfg     config.Config
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.Load()}

	cmd := &cobra.Command{
		Use:           "tenupctl",
		Short:         "Manage credentials and run ad-hoc tournament queries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", opts.cfg.DataDir, "directory holding the persisted credentials")

	cmd.AddCommand(
		newAuthCmd(opts),
		newFetchCmd(opts),
		newRefreshCookieCmd(opts),
	)
	return cmd
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})
}
