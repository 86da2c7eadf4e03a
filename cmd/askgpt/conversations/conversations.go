package convcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askgpt/pkg/chatgpt"
	"github.com/papercomputeco/askgpt/pkg/logger"
	"github.com/papercomputeco/askgpt/pkg/osa"
	"github.com/papercomputeco/askgpt/server"
)

const convLongDesc string = `List the conversation titles in the ChatGPT sidebar.

Titles are printed one per line in sidebar order. If the sidebar cannot
be read (app layout change, missing accessibility permission) a single
fallback line is printed instead.

Examples:
  askgpt conversations
  askgpt conversations --config ~/.config/askgpt.toml`

const convShortDesc string = "List ChatGPT conversations"

type convCommander struct {
	configPath string
	debug      bool
}

func NewConversationsCmd() *cobra.Command {
	cmder := &convCommander{}

	cmd := &cobra.Command{
		Use:   "conversations",
		Short: convShortDesc,
		Long:  convLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *convCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	log := logger.NewLogger(c.debug)
	defer log.Sync()

	client := chatgpt.New(osa.NewRunner(), cfg.Automation, log)

	for _, label := range client.ListConversations(ctx) {
		fmt.Fprintln(cmd.OutOrStdout(), label)
	}

	return nil
}
