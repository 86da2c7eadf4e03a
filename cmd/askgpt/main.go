package main

import (
	"os"

	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/askgpt/cmd/askgpt/ask"
	convcmder "github.com/papercomputeco/askgpt/cmd/askgpt/conversations"
	servecmder "github.com/papercomputeco/askgpt/cmd/askgpt/serve"
)

func main() {
	root := &cobra.Command{
		Use:          "askgpt",
		Short:        "Drive the ChatGPT desktop app over MCP or from the terminal",
		SilenceUsage: true,
	}

	root.AddCommand(
		servecmder.NewServeCmd(),
		askcmder.NewAskCmd(),
		convcmder.NewConversationsCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
