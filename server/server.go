// Package server exposes the ChatGPT desktop automation as a Model Context
// Protocol server. A single tool, "chatgpt", carries two operations (ask and
// get_conversations); every call is handled synchronously end-to-end and no
// state survives between requests.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	// ServerName identifies this implementation to MCP clients.
	ServerName = "askgpt"
	// ServerVersion is the implementation version reported on initialize.
	ServerVersion = "1.0.0"
	// ToolName is the single tool this server registers.
	ToolName = "chatgpt"
)

// Server wires the MCP protocol machinery to the automation client.
type Server struct {
	config    Config
	mcpServer *mcp.Server
	router    *router
	logger    *zap.Logger
	app       *fiber.App
}

// New creates a Server around the given automator.
func New(config Config, automator Automator, logger *zap.Logger) *Server {
	s := &Server{
		config: config,
		router: &router{automator: automator, logger: logger},
		logger: logger,
	}

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	// The tool is registered with a raw handler so the router owns every
	// shape check and can answer malformed arguments with isError results
	// instead of protocol-level failures.
	mcpSrv.AddTool(&mcp.Tool{
		Name: ToolName,
		Description: "Interact with the ChatGPT desktop app on macOS. " +
			"Use operation \"ask\" to send a prompt (optionally into a named " +
			"conversation) and operation \"get_conversations\" to list the " +
			"conversation titles in the sidebar.",
		InputSchema: toolInputSchema(),
	}, s.handleToolCall)

	s.mcpServer = mcpSrv
	return s
}

func toolInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"operation": {
				Type:        "string",
				Enum:        []any{OperationAsk, OperationGetConversations},
				Description: "Operation to perform",
			},
			"prompt": {
				Type:        "string",
				Description: "The prompt to send to ChatGPT (required for operation ask)",
			},
			"conversation_id": {
				Type:        "string",
				Description: "Optional conversation title to continue",
			},
		},
		Required: []string{"operation"},
	}
}

func (s *Server) handleToolCall(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.router.handleCall(ctx, req.Params.Name, rawArguments(req.Params.Arguments)), nil
}

// rawArguments normalizes the SDK's argument representation to raw JSON.
func rawArguments(args any) json.RawMessage {
	switch v := args.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return b
	}
}

// Run serves until the context is canceled or the transport closes. With an
// empty ListenAddr the server speaks MCP over stdio; otherwise it serves the
// streamable HTTP transport on that address.
func (s *Server) Run(ctx context.Context) error {
	if s.config.ListenAddr == "" {
		return s.runStdio(ctx)
	}
	return s.runHTTP(ctx)
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("starting MCP server", zap.String("transport", "stdio"))

	session, err := s.mcpServer.Connect(ctx, &mcp.StdioTransport{}, nil)
	if err != nil {
		return err
	}
	return session.Wait()
}

func (s *Server) runHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
	app.All("/mcp", adaptor.HTTPHandler(handler))
	s.app = app

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			s.logger.Warn("error shutting down HTTP server", zap.Error(err))
		}
	}()

	s.logger.Info("starting MCP server",
		zap.String("transport", "http"),
		zap.String("listen", s.config.ListenAddr),
	)

	return app.Listen(s.config.ListenAddr)
}

// Close shuts down the HTTP listener if one is running. The stdio transport
// ends with its session.
func (s *Server) Close() error {
	if s.app != nil {
		return s.app.Shutdown()
	}
	return nil
}
