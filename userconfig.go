/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"time"

	"github.com/sirupsen/logrus"
)

// UserConfig is the nickname, opaque token, and requested capability set a
// Runner registers with. Build one with NewUserConfig and a set of Options.
// IdleTimeout and PingGrace of zero mean "use the package default".
type UserConfig struct {
	Nick         string
	Token        string
	Capabilities Capabilities

	RateLimits  RateLimits
	IdleTimeout time.Duration
	PingGrace   time.Duration
	Retry       RetryStrategy

	Logger *logrus.Logger
}

// Option configures a UserConfig being built by NewUserConfig.
type Option func(*UserConfig) error

// NewUserConfig applies opts in order and validates the result, returning
// ConfigError sentinels (ErrMissingNick, ErrMissingToken,
// ErrInvalidCapability) on failure.
func NewUserConfig(opts ...Option) (*UserConfig, error) {
	cfg := &UserConfig{
		Capabilities: make(Capabilities),
		RateLimits:   DefaultRateLimits(),
		Retry:        RetryImmediately,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Nick == "" {
		return nil, ErrMissingNick
	}
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return cfg, nil
}

// WithNick sets the nickname to register with.
func WithNick(nick string) Option {
	return func(c *UserConfig) error {
		c.Nick = nick
		return nil
	}
}

// WithToken sets the auth token to register with.
func WithToken(token string) Option {
	return func(c *UserConfig) error {
		c.Token = token
		return nil
	}
}

// WithAnonymousLogin configures the well-known read-only anonymous
// nick/token pair.
func WithAnonymousLogin() Option {
	return func(c *UserConfig) error {
		c.Nick = AnonymousLogin
		c.Token = AnonymousLogin
		return nil
	}
}

// WithCapability requests cap in addition to any already requested.
func WithCapability(cap Capability) Option {
	return func(c *UserConfig) error {
		if _, ok := cap.encodeAsStr(); !ok {
			return ErrInvalidCapability
		}
		c.Capabilities.Add(cap)
		return nil
	}
}

// WithAllCapabilities requests Membership, Tags, and Commands.
func WithAllCapabilities() Option {
	return func(c *UserConfig) error {
		c.Capabilities = AllCapabilities()
		return nil
	}
}

// WithLogger sets the logger used by the runner and its collaborators.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *UserConfig) error {
		c.Logger = logger
		return nil
	}
}

// WithLogLevel sets the level on whichever logger ends up configured.
func WithLogLevel(level logrus.Level) Option {
	return func(c *UserConfig) error {
		if c.Logger == nil {
			c.Logger = logrus.StandardLogger()
		}
		c.Logger.SetLevel(level)
		return nil
	}
}

// WithRateLimits overrides the default per-class token bucket parameters.
func WithRateLimits(limits RateLimits) Option {
	return func(c *UserConfig) error {
		c.RateLimits = limits
		return nil
	}
}

// WithRetryStrategy overrides the default (immediate, unlimited) retry
// strategy used by RunWithRetry.
func WithRetryStrategy(strategy RetryStrategy) Option {
	return func(c *UserConfig) error {
		c.Retry = strategy
		return nil
	}
}

// WithIdleTimeout overrides how long the runner waits without receiving any
// bytes before sending a proactive Ping.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *UserConfig) error {
		c.IdleTimeout = d
		return nil
	}
}

// WithPingGrace overrides how long the runner waits for a Pong reply to its
// proactive Ping before transitioning to Status.Timeout.
func WithPingGrace(d time.Duration) Option {
	return func(c *UserConfig) error {
		c.PingGrace = d
		return nil
	}
}
