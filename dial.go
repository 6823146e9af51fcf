/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn adapts a *websocket.Conn (message-framed) to io.ReadWriteCloser
// (stream-framed) so the Framer can treat it like any other transport: each
// inbound text message is buffered and read out byte-by-byte, each Write is
// sent as its own text message.
type wsConn struct {
	*websocket.Conn
	buf []byte
}

func (c *wsConn) Read(p []byte) (int, error) {
	for len(c.buf) == 0 {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		c.buf = data
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.Conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.Conn.Close()
}

// Dial connects over plain TCP to addr (e.g. AddressPlain), returning a
// Connector that redials addr on every call — suitable for RunWithRetry.
func Dial(addr string) Connector {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	}
}

// DialTLS connects over TLS to addr (e.g. AddressTLS).
func DialTLS(addr string, cfg *tls.Config) Connector {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		tlsConn := tls.Client(conn, cfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		return tlsConn, nil
	}
}

// DialWebSocket connects to a ws:// or wss:// endpoint (e.g.
// AddressWebSocket, AddressWebSocketTLS) and adapts the message-framed
// websocket transport to the stream-oriented Connector interface.
func DialWebSocket(url string) Connector {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := dialer.DialContext(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		return &wsConn{Conn: conn}, nil
	}
}

// DialEasy is the zero-configuration convenience entry point: TLS to the
// default chat endpoint.
func DialEasy() Connector {
	return DialTLS(AddressTLS, &tls.Config{ServerName: "irc.chat.trovo.tv"})
}
