package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"unify/internal/logging"
	"unify/internal/mockapi"
)

// MockAPIOptions holds flags for the mockapi command.
type MockAPIOptions struct {
	*RootOptions
	Listen string
	Key    string
}

// NewMockAPICommand creates the mockapi command.
func NewMockAPICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MockAPIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Serve the demo user API",
		Long: `Start the keyed demo API the rest source fetches from. Intended for
local demos alongside seed data.

Example:
  unify mockapi --listen :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockAPI(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", ":9090", "address to listen on")
	cmd.Flags().StringVar(&opts.Key, "key", mockapi.DefaultKey, "required x-api-key value")

	return cmd
}

func runMockAPI(opts *MockAPIOptions, cmd *cobra.Command) error {
	logger, err := logging.New(opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "init logging", err)
	}
	defer logger.Sync()

	srv := &http.Server{
		Addr:              opts.Listen,
		Handler:           mockapi.NewRouter(opts.Key, mockapi.DemoUsers),
		ReadHeaderTimeout: 5 * time.Second,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock api listening", zap.String("addr", opts.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitCommandError, "mockapi", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return WrapExitError(ExitCommandError, "shutdown", err)
		}
	}
	return nil
}
