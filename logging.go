/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
)

// WithDefaultLogFormatter installs the package's nested-key formatter on
// whichever logger ends up configured (the default logrus.StandardLogger if
// no WithLogger option preceded this one).
func WithDefaultLogFormatter() Option {
	return func(c *UserConfig) error {
		if c.Logger == nil {
			c.Logger = logrus.StandardLogger()
		}
		c.Logger.SetFormatter(&nested.Formatter{
			HideKeys:    true,
			FieldsOrder: []string{"component", "kind"},
		})
		return nil
	}
}

// Warmup pre-fills the framer's line pool with up to lines buffers ahead of
// the first connection so the first few frames don't pay an allocation.
// The buffers argument is accepted but unused: the encoder's buffer pool is
// not pre-filled. Safe to call multiple times.
func Warmup(log *logrus.Logger, lines, buffers int) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.Debug("trovochat: warming up frame and buffer pools")
	linePoolWarmup(lines)
	_ = buffers // bufpool is a channel-backed util.BufferPool with no public Warmup hook
}
