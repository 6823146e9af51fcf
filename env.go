/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envSpec is the environment-variable shape accepted by
// NewUserConfigFromEnv, all under the TROVOCHAT_ prefix (e.g.
// TROVOCHAT_NICK, TROVOCHAT_TOKEN, TROVOCHAT_CAPABILITIES).
type envSpec struct {
	Nick         string `envconfig:"NICK"`
	Token        string `envconfig:"TOKEN"`
	Anonymous    bool   `envconfig:"ANONYMOUS" default:"false"`
	Capabilities string `envconfig:"CAPABILITIES" default:""`
}

// LoadDotEnv loads key=value pairs from path into the process environment.
// If path cannot be loaded (for example, it does not exist) it returns a
// non-nil error and leaves the environment unchanged. It has no effect on
// already-set environment variables.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("trovochat: no dotenv file at %q, using process environment: %w", path, err)
	}
	return nil
}

// NewUserConfigFromEnv builds a UserConfig from TROVOCHAT_-prefixed
// environment variables, with extra applied after the environment so
// callers can still override programmatically.
func NewUserConfigFromEnv(extra ...Option) (*UserConfig, error) {
	var spec envSpec
	if err := envconfig.Process("trovochat", &spec); err != nil {
		return nil, fmt.Errorf("trovochat: reading environment config: %w", err)
	}

	opts := make([]Option, 0, len(extra)+4)
	switch {
	case spec.Anonymous:
		opts = append(opts, WithAnonymousLogin())
	default:
		opts = append(opts, WithNick(spec.Nick), WithToken(spec.Token))
	}

	for _, tok := range strings.Split(spec.Capabilities, ",") {
		tok = strings.TrimSpace(tok)
		cap, ok := maybeCapabilityFromStr(capabilityPrefix + strings.ToLower(tok))
		if !ok {
			continue
		}
		opts = append(opts, WithCapability(cap))
	}

	opts = append(opts, extra...)
	return NewUserConfig(opts...)
}
