package chatgpt

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultAppName is the process name of the ChatGPT desktop app as it
	// appears to System Events.
	DefaultAppName = "ChatGPT"

	defaultLaunchSettleDelay   = 3 * time.Second
	defaultActivateDelay       = time.Second
	defaultGenerationWaitDelay = 5 * time.Second
)

// Config holds the automation tunables. Every wait is a named duration so
// tests can shrink them and deployments can stretch them for slow machines;
// the scripts have no way to detect "done early", they just sleep.
type Config struct {
	// AppName is the target application's process name.
	AppName string

	// LaunchSettleDelay is how long to wait after launching the app before
	// assuming its window exists.
	LaunchSettleDelay time.Duration

	// ActivateDelay is how long to wait after bringing the app frontmost
	// before sending keystrokes.
	ActivateDelay time.Duration

	// GenerationWaitDelay is how long to wait after submitting a prompt
	// before scraping the reply.
	GenerationWaitDelay time.Duration

	// Locator addresses the UI elements the scripts touch.
	Locator UILocator
}

// DefaultConfig returns a Config tuned for the current ChatGPT app layout.
func DefaultConfig() Config {
	return Config{
		AppName:             DefaultAppName,
		LaunchSettleDelay:   defaultLaunchSettleDelay,
		ActivateDelay:       defaultActivateDelay,
		GenerationWaitDelay: defaultGenerationWaitDelay,
		Locator:             DefaultLocator(),
	}
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.LaunchSettleDelay <= 0 {
		c.LaunchSettleDelay = defaultLaunchSettleDelay
	}
	if c.ActivateDelay <= 0 {
		c.ActivateDelay = defaultActivateDelay
	}
	if c.GenerationWaitDelay <= 0 {
		c.GenerationWaitDelay = defaultGenerationWaitDelay
	}
	def := DefaultLocator()
	if c.Locator.Window <= 0 {
		c.Locator.Window = def.Window
	}
	if len(c.Locator.Groups) == 0 {
		c.Locator.Groups = def.Groups
	}
	if c.Locator.ReplyRole == "" {
		c.Locator.ReplyRole = def.ReplyRole
	}
	if c.Locator.ReplyOrdinal <= 0 {
		c.Locator.ReplyOrdinal = def.ReplyOrdinal
	}
	return c
}

// UILocator addresses elements inside the app window by ordinal. The layout
// is owned by the app vendor and changes without notice; isolating the
// ordinals here keeps an address change a one-line update instead of a
// rewrite of the script text.
type UILocator struct {
	// Window is the ordinal of the target window (1 = frontmost).
	Window int

	// Groups are the nested group ordinals containing the conversation
	// buttons, innermost first.
	Groups []int

	// ReplyRole is the accessibility role of the element holding the
	// assistant's reply (e.g. "text area").
	ReplyRole string

	// ReplyOrdinal is the ordinal of that element within the group container.
	ReplyOrdinal int
}

// DefaultLocator matches the ChatGPT app layout this was written against:
// conversation buttons under group 1 of group 1 of window 1, reply text in
// text area 2 of the same container.
func DefaultLocator() UILocator {
	return UILocator{
		Window:       1,
		Groups:       []int{1, 1},
		ReplyRole:    "text area",
		ReplyOrdinal: 2,
	}
}

// Container renders the AppleScript reference for the group holding the
// conversation buttons, e.g. "group 1 of group 1 of window 1".
func (l UILocator) Container() string {
	var b strings.Builder
	for _, g := range l.Groups {
		fmt.Fprintf(&b, "group %d of ", g)
	}
	fmt.Fprintf(&b, "window %d", l.Window)
	return b.String()
}

// ReplyElement renders the AppleScript reference for the reply text element,
// e.g. "text area 2 of group 1 of group 1 of window 1".
func (l UILocator) ReplyElement() string {
	return fmt.Sprintf("%s %d of %s", l.ReplyRole, l.ReplyOrdinal, l.Container())
}
