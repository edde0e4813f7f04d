package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/pkg/logger"
)

var (
	authCode string
	baseURL  string
	timeout  time.Duration
	verbose  bool
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "callerdesk-cli",
		Short:         "Operate a CallerDesk account from the terminal",
		Long:          `Inspect outbound history, run the inbound routing pipeline and place click-to-call requests against the CallerDesk API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&authCode, "authcode", os.Getenv("CALLERDESK_AUTH_CODE"), "CallerDesk authcode (default $CALLERDESK_AUTH_CODE)")
	flags.StringVar(&baseURL, "base-url", os.Getenv("CALLERDESK_BASE_URL"), "CallerDesk API base URL")
	flags.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP timeout per request")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(newHistoryCmd(), newRouteCmd(), newDialCmd(), newTokenCmd())
	return rootCmd
}

// newClient builds the gateway from the persistent flags.
func newClient() (*callerdesk.Client, error) {
	if strings.TrimSpace(authCode) == "" {
		return nil, fmt.Errorf("--authcode or CALLERDESK_AUTH_CODE is required")
	}
	return callerdesk.New(callerdesk.Config{
		BaseURL: baseURL,
		Timeout: timeout,
		Logger:  cliLogger(),
	})
}

// cliLogger keeps stdout for command output.
func cliLogger() *slog.Logger {
	env := "production"
	if verbose {
		env = "local"
	}
	return logger.NewWithWriter(os.Stderr, env)
}
