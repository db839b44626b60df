// Package config provides configuration management for querytext commands.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/solatis/querytext/internal/render"
)

// Line ending names accepted by render.line_ending.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// RenderConfig holds rendering options.
type RenderConfig struct {
	LineEnding  string // crlf or lf
	IndentWidth int    // spaces per level; 0 means one tab
	DateLayout  string // time package layout for date values
	Strict      bool   // validate before rendering
	DetectDates bool   // treat YYYY-MM-DD / RFC 3339 strings as dates
}

// StoreConfig holds saved-query storage options.
type StoreConfig struct {
	DBURL     string // sqlite:// or postgres:// URL; empty disables storage
	ListLimit int    // maximum rows returned by list
}

// Config is the complete querytext configuration.
type Config struct {
	Render RenderConfig
	Store  StoreConfig
}

// DefaultConfig returns configuration with default values.
// Defaults reproduce the historical output format.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			LineEnding:  LineEndingCRLF,
			IndentWidth: 0,
			DateLayout:  render.DefaultDateLayout,
			Strict:      false,
			DetectDates: false,
		},
		Store: StoreConfig{
			DBURL:     "",
			ListLimit: 1000,
		},
	}
}

// RenderOptions converts the render section into renderer options.
func (c *RenderConfig) RenderOptions() *render.Options {
	opts := &render.Options{
		Newline:   render.DefaultNewline,
		Indent:    render.DefaultIndent,
		Formatter: render.DefaultFormatter{DateLayout: c.DateLayout},
		Mode:      render.ModeLenient,
	}
	if c.LineEnding == LineEndingLF {
		opts.Newline = "\n"
	}
	if c.IndentWidth > 0 {
		opts.Indent = strings.Repeat(" ", c.IndentWidth)
	}
	if c.Strict {
		opts.Mode = render.ModeStrict
	}
	return opts
}

// validateConfig checks enumerations and positive limits.
func validateConfig(cfg *Config) error {
	switch cfg.Render.LineEnding {
	case LineEndingCRLF, LineEndingLF:
	default:
		return fmt.Errorf("render.line_ending must be %q or %q, got %q", LineEndingCRLF, LineEndingLF, cfg.Render.LineEnding)
	}
	if cfg.Render.IndentWidth < 0 || cfg.Render.IndentWidth > 16 {
		return fmt.Errorf("render.indent_width must be between 0 and 16, got %d", cfg.Render.IndentWidth)
	}
	if strings.TrimSpace(cfg.Render.DateLayout) == "" {
		return fmt.Errorf("render.date_layout must not be empty")
	}
	if cfg.Store.ListLimit <= 0 {
		return fmt.Errorf("store.list_limit must be positive, got %d", cfg.Store.ListLimit)
	}
	if cfg.Store.DBURL != "" {
		if _, err := url.Parse(cfg.Store.DBURL); err != nil {
			return fmt.Errorf("store.db_url: %w", err)
		}
	}
	return nil
}

// hasPassword reports whether a database URL carries a password.
func hasPassword(dbURL string) bool {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}
