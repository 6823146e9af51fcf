/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserConfigRequiresNick(t *testing.T) {
	_, err := NewUserConfig(WithToken("sometoken"))
	assert.True(t, errors.Is(err, ErrMissingNick))
}

func TestNewUserConfigRequiresToken(t *testing.T) {
	_, err := NewUserConfig(WithNick("someuser"))
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestNewUserConfigAnonymousLogin(t *testing.T) {
	cfg, err := NewUserConfig(WithAnonymousLogin())
	assert.NoError(t, err)
	assert.Equal(t, AnonymousLogin, cfg.Nick)
	assert.Equal(t, AnonymousLogin, cfg.Token)
}

func TestNewUserConfigCapabilities(t *testing.T) {
	cfg, err := NewUserConfig(
		WithAnonymousLogin(),
		WithCapability(Tags),
		WithCapability(Commands),
	)
	assert.NoError(t, err)
	assert.True(t, cfg.Capabilities.Has(Tags))
	assert.True(t, cfg.Capabilities.Has(Commands))
	assert.False(t, cfg.Capabilities.Has(Membership))
}

func TestNewUserConfigInvalidCapability(t *testing.T) {
	_, err := NewUserConfig(
		WithAnonymousLogin(),
		WithCapability(Capability(99)),
	)
	assert.True(t, errors.Is(err, ErrInvalidCapability))
}

func TestNewUserConfigDefaults(t *testing.T) {
	cfg, err := NewUserConfig(WithAnonymousLogin())
	assert.NoError(t, err)
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, DefaultRateLimits(), cfg.RateLimits)
	assert.Equal(t, time.Duration(0), cfg.IdleTimeout)
}

func TestWithIdleTimeoutAndPingGrace(t *testing.T) {
	cfg, err := NewUserConfig(
		WithAnonymousLogin(),
		WithIdleTimeout(time.Minute),
		WithPingGrace(5*time.Second),
	)
	assert.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.PingGrace)
}
