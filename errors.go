package rawhttp

import (
	"errors"
	"fmt"
)

// ConfigError is returned by Builder.Build when the server can't be constructed
// out of what was given.
type ConfigError struct {
	Field string
	Err   error
}

func (c *ConfigError) Error() string {
	return fmt.Sprintf("rawhttp: bad %s: %s", c.Field, c.Err)
}

func (c *ConfigError) Unwrap() error {
	return c.Err
}

var (
	ErrNoAddress      = &ConfigError{Field: "address", Err: errors.New("no address to bind to")}
	ErrAlreadyBuilt   = errors.New("rawhttp: server is already built")
	ErrAlreadyRunning = errors.New("rawhttp: server is already running")
	ErrNotStarted     = errors.New("rawhttp: server isn't running")
)
