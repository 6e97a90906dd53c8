package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todo-web/internal/config"
	"todo-web/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error(ctx, "Command failed", "error", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	envFile string
	host    string
	port    string
	debug   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "todo-web",
		Short:         "In-memory todo list served over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	registerFlags(cmd, flags)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE:  cmd.RunE,
		},
		newActivityCmd(flags),
	)
	return cmd
}

func registerFlags(cmd *cobra.Command, flags *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "file of KEY=VALUE pairs loaded before the environment is read")
	pf.StringVar(&flags.host, "host", "", "bind host (overrides HTTP_HOST)")
	pf.StringVar(&flags.port, "port", "", "bind port (overrides HTTP_PORT)")
	pf.BoolVar(&flags.debug, "debug", false, "gin debug mode and debug logging (overrides DEBUG)")
}

// loadConfig applies the env file, the environment and then explicit flags.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	if err := config.LoadEnvFile(flags.envFile); err != nil {
		return nil, err
	}
	if err := config.Err(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c := *config.Get()
	cfg := &c
	if cmd.Flags().Changed("host") {
		cfg.HTTPHost = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.HTTPPort = flags.port
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flags.debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger.Init(level)
	return cfg, nil
}
