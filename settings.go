/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import "time"

// Frame and message size limits.
const (
	MaxFrameLength int = 8192
	MaxTagsLength  int = 4096
)

// Well-known service endpoints.
const (
	AddressPlain       = "irc.chat.trovo.tv:6667"
	AddressTLS         = "irc.chat.trovo.tv:6697"
	AddressWebSocket   = "ws://irc-ws.chat.trovo.tv:80"
	AddressWebSocketTLS = "wss://irc-ws.chat.trovo.tv:443"
)

// AnonymousLogin is the nick/token pair granting read-only access without
// authentication.
const AnonymousLogin = "justinfan1234"

// Runner liveness defaults.
const (
	DefaultIdleTimeout = 5 * time.Minute
	DefaultPingGrace   = 30 * time.Second
)

// Pool sizing defaults, mirrored from the warmup pattern used for the
// server-side message and buffer pools.
const (
	DefaultLinePoolSize = 16
	DefaultBufPoolSize  = 16
)
