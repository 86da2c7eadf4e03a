package server

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/askgpt/pkg/chatgpt"
)

// Config is the server configuration.
type Config struct {
	// ListenAddr switches the transport: empty means stdio (the normal MCP
	// client setup), anything else serves streamable HTTP on that address.
	ListenAddr string

	// LogFile is the append-only log destination. Empty means a file next
	// to the executable, resolved by the CLI.
	LogFile string

	// Debug enables debug-level logging.
	Debug bool

	// Automation holds the app name, UI locator, and settle delays.
	Automation chatgpt.Config
}

// DefaultConfig returns a Config with automation defaults filled in.
func DefaultConfig() Config {
	return Config{Automation: chatgpt.DefaultConfig()}
}

// fileConfig is the TOML shape. Delays are plain millisecond integers so a
// config file never needs Go duration syntax.
type fileConfig struct {
	AppName          string            `toml:"app_name"`
	LogFile          string            `toml:"log_file"`
	Listen           string            `toml:"listen"`
	LaunchSettleMS   int               `toml:"launch_settle_ms"`
	ActivateMS       int               `toml:"activate_ms"`
	GenerationWaitMS int               `toml:"generation_wait_ms"`
	Locator          fileLocatorConfig `toml:"locator"`
}

type fileLocatorConfig struct {
	Window       int    `toml:"window"`
	Groups       []int  `toml:"groups"`
	ReplyRole    string `toml:"reply_role"`
	ReplyOrdinal int    `toml:"reply_ordinal"`
}

// LoadConfig reads an optional TOML config file over the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Config{}, fmt.Errorf("could not read config %s: %w", path, err)
	}

	if fc.AppName != "" {
		cfg.Automation.AppName = fc.AppName
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if fc.LaunchSettleMS > 0 {
		cfg.Automation.LaunchSettleDelay = time.Duration(fc.LaunchSettleMS) * time.Millisecond
	}
	if fc.ActivateMS > 0 {
		cfg.Automation.ActivateDelay = time.Duration(fc.ActivateMS) * time.Millisecond
	}
	if fc.GenerationWaitMS > 0 {
		cfg.Automation.GenerationWaitDelay = time.Duration(fc.GenerationWaitMS) * time.Millisecond
	}
	if fc.Locator.Window > 0 {
		loc := chatgpt.DefaultLocator()
		loc.Window = fc.Locator.Window
		if len(fc.Locator.Groups) > 0 {
			loc.Groups = fc.Locator.Groups
		}
		if fc.Locator.ReplyRole != "" {
			loc.ReplyRole = fc.Locator.ReplyRole
		}
		if fc.Locator.ReplyOrdinal > 0 {
			loc.ReplyOrdinal = fc.Locator.ReplyOrdinal
		}
		cfg.Automation.Locator = loc
	}

	return cfg, nil
}
