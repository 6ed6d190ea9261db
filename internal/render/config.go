package render

import (
	"fmt"
	"strings"
)

type Config struct {
	MaxDepth    int  // levels expanded below each root, at least 1
	MaxChildren int  // children listed per node before eliding the rest, 0 for all
	Color       bool // style text output with terminal colors
	Width       int  // truncate text lines to this many columns, 0 for no limit
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:    3,
		MaxChildren: 100,
		Color:       true,
	}
}

func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("invalid depth: %d (must be at least 1)", c.MaxDepth)
	}
	if c.MaxChildren < 0 {
		return fmt.Errorf("invalid child limit: %d", c.MaxChildren)
	}
	if c.Width < 0 {
		return fmt.Errorf("invalid width: %d", c.Width)
	}
	return nil
}

func (c *Config) String() string {
	parts := []string{fmt.Sprintf("depth %d", c.MaxDepth)}
	if c.MaxChildren > 0 {
		parts = append(parts, fmt.Sprintf("%d children max", c.MaxChildren))
	} else {
		parts = append(parts, "all children")
	}
	if c.Width > 0 {
		parts = append(parts, fmt.Sprintf("%d columns", c.Width))
	}
	if !c.Color {
		parts = append(parts, "no color")
	}
	return strings.Join(parts, ", ")
}
