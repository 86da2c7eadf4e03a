package askcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askgpt/pkg/chatgpt"
	"github.com/papercomputeco/askgpt/pkg/logger"
	"github.com/papercomputeco/askgpt/pkg/osa"
	"github.com/papercomputeco/askgpt/server"
)

const askLongDesc string = `Send a prompt to the ChatGPT desktop app and print the reply.

This drives the app's window through the accessibility layer: it will
come to the foreground and receive simulated keystrokes, so keep your
hands off the keyboard while it runs. The reply is a best-effort scrape
of the app window.

Examples:
  askgpt ask "What is a Merkle DAG?"
  askgpt ask --conversation "Side project" "Where were we?"`

const askShortDesc string = "Ask ChatGPT a question from the terminal"

type askCommander struct {
	configPath   string
	conversation string
	debug        bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVarP(&cmder.conversation, "conversation", "C", "", "Conversation title to continue")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}

	cfg, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	log := logger.NewLogger(c.debug)
	defer log.Sync()

	client := chatgpt.New(osa.NewRunner(), cfg.Automation, log)

	reply, err := client.Ask(ctx, prompt, c.conversation)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
