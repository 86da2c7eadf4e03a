// Package chatgpt drives the ChatGPT desktop application through the macOS
// accessibility layer. It owns the AppleScript text, the availability probe,
// and the fixed settle delays; callers see two operations (Ask and
// ListConversations) plus the probe itself.
package chatgpt

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/askgpt/pkg/osa"
)

const (
	// ReplyUnavailable is returned by Ask when the prompt was submitted but
	// the reply could not be read back from the window.
	ReplyUnavailable = "Response received but could not be read from the ChatGPT window. Check the app for the reply."

	// SentinelNoConversations is the single-element fallback returned by
	// ListConversations when the button enumeration fails.
	SentinelNoConversations = "Unable to retrieve conversations"

	// newChatLabel is the one button in the conversation group that is not a
	// conversation.
	newChatLabel = "New chat"

	// labelSeparator is how osascript joins list results. A conversation
	// title containing this exact substring splits incorrectly; preserved
	// as-is because the app gives no better delimiter.
	labelSeparator = ", "
)

// Client is the automation client for the ChatGPT desktop app. It is
// stateless between calls: every operation independently re-probes that the
// app is available before touching its window.
type Client struct {
	runner osa.Runner
	logger *zap.Logger
	cfg    Config
}

// New creates a Client. Zero-valued Config fields fall back to defaults.
func New(runner osa.Runner, cfg Config, logger *zap.Logger) *Client {
	return &Client{
		runner: runner,
		logger: logger,
		cfg:    cfg.withDefaults(),
	}
}

// EnsureAvailable checks that the app process is registered with System
// Events, launching it if not and waiting for it to settle. There is no
// cached availability and no backoff: one probe, at most one launch attempt.
func (c *Client) EnsureAvailable(ctx context.Context) error {
	probe := fmt.Sprintf(
		`tell application "System Events" to return (name of processes) contains "%s"`,
		osa.Quote(c.cfg.AppName),
	)

	out, err := c.runner.Run(ctx, probe)
	if err != nil {
		c.logger.Error("availability probe failed", zap.Error(err))
		return newError(FailureAccess, "availability probe failed", err)
	}

	if strings.TrimSpace(out) == "true" {
		return nil
	}

	c.logger.Info("app not running, launching", zap.String("app", c.cfg.AppName))

	launch := fmt.Sprintf(`tell application "%s" to activate`, osa.Quote(c.cfg.AppName))
	if _, err := c.runner.Run(ctx, launch); err != nil {
		c.logger.Error("launch failed", zap.Error(err))
		return newError(FailureLaunch, "could not launch app", err)
	}

	if err := sleep(ctx, c.cfg.LaunchSettleDelay); err != nil {
		return newError(FailureLaunch, "interrupted while waiting for app to settle", err)
	}
	return nil
}

// Ask submits prompt to the app and returns a best-effort scrape of the
// reply. When conversationID is non-empty the matching conversation button
// is clicked first, swallowing any failure (the label may have scrolled out
// of the group). The prompt is typed as simulated keystrokes rather than
// pasted, so the clipboard is left alone.
//
// The prompt must be non-empty; enforcing that is the router's job.
func (c *Client) Ask(ctx context.Context, prompt, conversationID string) (string, error) {
	if err := c.EnsureAvailable(ctx); err != nil {
		return "", err
	}

	out, err := c.runner.Run(ctx, c.askScript(prompt, conversationID))
	if err != nil {
		c.logger.Error("ask script failed", zap.Error(err))
		return "", newError(FailureInteraction, "ask automation failed", err)
	}

	c.logger.Info("ask completed",
		zap.String("prompt_preview", truncate(prompt, 80)),
		zap.String("reply_preview", truncate(out, 80)),
	)

	return out, nil
}

// askScript builds the keystroke-driven automation script: activate, focus
// the requested conversation, type the prompt, submit, wait out generation,
// then try to read the reply element. The reply read is wrapped in the
// script's own try block so a layout change degrades to the fixed
// ReplyUnavailable string instead of an engine error.
func (c *Client) askScript(prompt, conversationID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "tell application \"%s\" to activate\n", osa.Quote(c.cfg.AppName))
	fmt.Fprintf(&b, "delay %s\n", seconds(c.cfg.ActivateDelay))
	b.WriteString("tell application \"System Events\"\n")
	fmt.Fprintf(&b, "\ttell process \"%s\"\n", osa.Quote(c.cfg.AppName))

	if conversationID != "" {
		b.WriteString("\t\ttry\n")
		fmt.Fprintf(&b, "\t\t\tclick button \"%s\" of %s\n", osa.Quote(conversationID), c.cfg.Locator.Container())
		fmt.Fprintf(&b, "\t\t\tdelay %s\n", seconds(c.cfg.ActivateDelay))
		b.WriteString("\t\tend try\n")
	}

	fmt.Fprintf(&b, "\t\tkeystroke \"%s\"\n", osa.Quote(prompt))
	b.WriteString("\t\tkeystroke return\n")
	fmt.Fprintf(&b, "\t\tdelay %s\n", seconds(c.cfg.GenerationWaitDelay))
	b.WriteString("\t\ttry\n")
	fmt.Fprintf(&b, "\t\t\treturn value of %s\n", c.cfg.Locator.ReplyElement())
	b.WriteString("\t\ton error\n")
	fmt.Fprintf(&b, "\t\t\treturn \"%s\"\n", osa.Quote(ReplyUnavailable))
	b.WriteString("\t\tend try\n")
	b.WriteString("\tend tell\n")
	b.WriteString("end tell")

	return b.String()
}

// ListConversations returns the conversation labels in sidebar order. It
// never fails outward: any probe or enumeration error is logged and degrades
// to the one-element sentinel list.
func (c *Client) ListConversations(ctx context.Context) []string {
	if err := c.EnsureAvailable(ctx); err != nil {
		return []string{SentinelNoConversations}
	}

	out, err := c.runner.Run(ctx, c.listScript())
	if err != nil {
		c.logger.Error("conversation listing failed", zap.Error(err))
		return []string{SentinelNoConversations}
	}

	labels := make([]string, 0)
	for _, label := range splitLabels(out) {
		if label == newChatLabel {
			continue
		}
		labels = append(labels, label)
	}

	c.logger.Debug("conversations listed", zap.Int("count", len(labels)))
	return labels
}

func (c *Client) listScript() string {
	var b strings.Builder

	fmt.Fprintf(&b, "tell application \"%s\" to activate\n", osa.Quote(c.cfg.AppName))
	fmt.Fprintf(&b, "delay %s\n", seconds(c.cfg.ActivateDelay))
	b.WriteString("tell application \"System Events\"\n")
	fmt.Fprintf(&b, "\ttell process \"%s\"\n", osa.Quote(c.cfg.AppName))
	fmt.Fprintf(&b, "\t\treturn name of buttons of %s\n", c.cfg.Locator.Container())
	b.WriteString("\tend tell\n")
	b.WriteString("end tell")

	return b.String()
}

// splitLabels undoes osascript's list joining. Lossy for labels containing
// the separator itself.
func splitLabels(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, labelSeparator)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// seconds renders a duration as an AppleScript delay operand.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
