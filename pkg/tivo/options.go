package tivo

import (
	"errors"
	"log/slog"
	"time"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig) error

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	port           int
	connectTimeout time.Duration
	commandTimeout time.Duration
	logger         *slog.Logger
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		port:           DefaultPort,
		connectTimeout: 1 * time.Second,
		commandTimeout: 1 * time.Second,
		logger:         nil,
	}
}

// WithPort sets the TCP port to connect to.
// Default is 31339.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		c.port = port
		return nil
	}
}

// WithConnectTimeout sets the timeout for establishing a connection.
// Default is 1 second.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("connect timeout must be positive")
		}
		c.connectTimeout = d
		return nil
	}
}

// WithCommandTimeout sets the timeout for waiting for a reply after a
// command.
// Default is 1 second.
func WithCommandTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("command timeout must be positive")
		}
		c.commandTimeout = d
		return nil
	}
}

// WithLogger sets a structured logger for debug and error logging.
// By default, no logging is performed.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) error {
		c.logger = logger
		return nil
	}
}

// SendOption configures a single command send.
type SendOption func(*sendConfig)

type sendConfig struct {
	waitForReply bool
}

// WithoutReply sends the command without waiting for the box to reply.
// Device-reported errors for the command cannot be observed by the caller;
// useful while the box is waking up and not yet answering.
func WithoutReply() SendOption {
	return func(c *sendConfig) {
		c.waitForReply = false
	}
}
