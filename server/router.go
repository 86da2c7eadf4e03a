package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Operations carried in a tool request.
const (
	OperationAsk              = "ask"
	OperationGetConversations = "get_conversations"
)

// Validation messages. Kept as constants so identical malformed payloads
// produce byte-identical responses.
const (
	msgNoArguments       = "No arguments provided"
	msgArgumentsNotObj   = "Invalid arguments: arguments must be an object"
	msgInvalidOperation  = "Invalid arguments: operation must be one of: ask, get_conversations"
	msgPromptNotString   = "Invalid arguments: prompt must be a string"
	msgPromptRequired    = "Invalid arguments: prompt is required and must be a non-empty string for operation ask"
	msgConversationIDStr = "Invalid arguments: conversation_id must be a string"
)

// Automator is the automation surface the router dispatches to. Both
// operations re-probe app availability themselves, so the router hands them
// nothing but the validated arguments.
type Automator interface {
	Ask(ctx context.Context, prompt, conversationID string) (string, error)
	ListConversations(ctx context.Context) []string
}

// router turns raw tool-call arguments into uniform single-text-block
// results. It is a total function over its input: validation failures and
// operation errors all become isError results, never Go errors, so the
// transport never observes a failure for a well-formed envelope.
type router struct {
	automator Automator
	logger    *zap.Logger
}

func (r *router) handleCall(ctx context.Context, name string, args json.RawMessage) *mcp.CallToolResult {
	if name != ToolName {
		return errorResult(fmt.Sprintf("Unknown tool: %s", name))
	}

	if len(args) == 0 || string(args) == "null" {
		return errorResult(msgNoArguments)
	}

	var fields map[string]any
	if err := json.Unmarshal(args, &fields); err != nil {
		return errorResult(msgArgumentsNotObj)
	}

	operation, ok := fields["operation"].(string)
	if !ok || (operation != OperationAsk && operation != OperationGetConversations) {
		return errorResult(msgInvalidOperation)
	}

	// A non-string prompt is malformed for every operation, not just ask;
	// only the non-emptiness requirement is ask-specific.
	if raw, present := fields["prompt"]; present {
		if _, ok := raw.(string); !ok {
			return errorResult(msgPromptNotString)
		}
	}

	conversationID := ""
	if raw, present := fields["conversation_id"]; present {
		s, ok := raw.(string)
		if !ok {
			return errorResult(msgConversationIDStr)
		}
		conversationID = s
	}

	switch operation {
	case OperationAsk:
		prompt, ok := fields["prompt"].(string)
		if !ok || prompt == "" {
			return errorResult(msgPromptRequired)
		}
		return r.handleAsk(ctx, prompt, conversationID)
	default:
		return r.handleGetConversations(ctx)
	}
}

func (r *router) handleAsk(ctx context.Context, prompt, conversationID string) *mcp.CallToolResult {
	reply, err := r.automator.Ask(ctx, prompt, conversationID)
	if err != nil {
		r.logger.Error("ask operation failed", zap.Error(err))
		return errorResult("Error: " + err.Error())
	}
	return textResult(reply)
}

// handleGetConversations never reports isError: the automator absorbs its
// own failures into the sentinel list.
func (r *router) handleGetConversations(ctx context.Context) *mcp.CallToolResult {
	labels := r.automator.ListConversations(ctx)
	return textResult(strings.Join(labels, "\n"))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	res := textResult(text)
	res.IsError = true
	return res
}
