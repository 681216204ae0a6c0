package config

import "github.com/MonkyMars/gecho"

// NewLogger builds the application logger at the configured level.
// Request logs leave out the caller since it is always the middleware.
func NewLogger(c *Config, showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(c.LogLevel)
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}
