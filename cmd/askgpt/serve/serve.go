package servecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/askgpt/cmd/askgpt/logpath"
	"github.com/papercomputeco/askgpt/pkg/chatgpt"
	"github.com/papercomputeco/askgpt/pkg/logger"
	"github.com/papercomputeco/askgpt/pkg/osa"
	"github.com/papercomputeco/askgpt/server"
)

const serveLongDesc string = `Run the MCP server.

By default the server speaks MCP over stdio, which is what desktop MCP
clients expect; point your client at the askgpt binary with "serve" as
the argument. With --listen it serves the streamable HTTP transport
instead, plus a /health endpoint.

Because stdout carries the protocol, all logging goes to an append-only
file next to the executable (override with --log-file or the config file).

Examples:
  askgpt serve
  askgpt serve --listen :6061
  askgpt serve --config ~/.config/askgpt.toml --debug`

const serveShortDesc string = "Run the MCP server (stdio or HTTP)"

type serveCommander struct {
	configPath string
	listen     string
	logFile    string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVar(&cmder.listen, "listen", "", "Serve MCP over HTTP on this address instead of stdio")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Path to the append-only log file")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	cfg, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.listen != "" {
		cfg.ListenAddr = c.listen
	}
	if c.logFile != "" {
		cfg.LogFile = c.logFile
	}
	cfg.Debug = cfg.Debug || c.debug

	logFile, err := logpath.Resolve(cfg.LogFile)
	if err != nil {
		return err
	}

	log, err := logger.NewFileLogger(logFile, cfg.Debug)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer log.Sync()

	log.Info("askgpt MCP server starting",
		zap.String("app", cfg.Automation.AppName),
		zap.String("listen", cfg.ListenAddr),
		zap.Bool("debug", cfg.Debug),
	)

	client := chatgpt.New(osa.NewRunner(), cfg.Automation, log)

	srv := server.New(cfg, client, log)
	defer srv.Close()

	return srv.Run(ctx)
}
