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

	"github.com/btnmasher/trovochat/internal/wirewrap"
	"github.com/btnmasher/util"
)

// bufpool holds a reference to the global bytes.Buffer object pool used to
// render outbound frames without an allocation per call.
var bufpool = util.NewBufferPool(DefaultBufPoolSize)

// maxBodyLength is the largest PRIVMSG body (or moderation command with its
// args) the encoder will emit as a single frame before splitting it across
// multiple frames. Whisper bodies are not split.
const maxBodyLength = 480

// Wire-format punctuation.
const (
	CRLF  = "\r\n"
	COLON = ":"
)

// Encoder formats outbound frames. It holds no connection state; callers
// feed its output to whatever write queue the runner is draining through
// the rate limiter.
type Encoder struct{}

// NewEncoder returns a stateless Encoder.
func NewEncoder() Encoder { return Encoder{} }

// normalizeChannel prepends '#' if the caller omitted it.
func normalizeChannel(ch string) string {
	if ch == "" || ch[0] == '#' {
		return ch
	}
	return "#" + ch
}

func (Encoder) render(parts ...string) string {
	buf := bufpool.New()
	defer bufpool.Recycle(buf)
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(p)
	}
	buf.WriteString(CRLF)
	return buf.String()
}

// Join renders "JOIN #channel\r\n".
func (e Encoder) Join(channel string) string {
	return e.render(CmdJoin, normalizeChannel(channel))
}

// Part renders "PART #channel\r\n".
func (e Encoder) Part(channel string) string {
	return e.render(CmdPart, normalizeChannel(channel))
}

// Privmsg renders one or more "PRIVMSG #channel :text\r\n" frames, splitting
// text across multiple frames if it would otherwise exceed the wire budget.
func (e Encoder) Privmsg(channel, text string) []string {
	channel = normalizeChannel(channel)
	lines := wirewrap.Body(maxBodyLength, text)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = e.render(CmdPrivmsg, channel, COLON+line)
	}
	return out
}

// Reply renders a threaded reply: "@reply-parent-msg-id=<id> PRIVMSG #channel :text\r\n".
func (e Encoder) Reply(channel, parentID, text string) string {
	channel = normalizeChannel(channel)
	tag := fmt.Sprintf("@reply-parent-msg-id=%s", parentID)
	return e.render(tag, CmdPrivmsg, channel, COLON+text)
}

// Whisper renders "PRIVMSG #jtv :/w name text\r\n", Trovo's whisper
// encoding over the PRIVMSG transport.
func (e Encoder) Whisper(name, text string) string {
	return e.render(CmdPrivmsg, "#jtv", COLON+"/w "+name+" "+text)
}

// Ping renders "PING :token\r\n".
func (e Encoder) Ping(token string) string {
	return e.render(CmdPing, COLON+token)
}

// Pong renders "PONG :token\r\n".
func (e Encoder) Pong(token string) string {
	return e.render(CmdPong, COLON+token)
}

// Raw appends a CRLF terminator to line if it doesn't already have one.
func (e Encoder) Raw(line string) string {
	if strings.HasSuffix(line, CRLF) {
		return line
	}
	return line + CRLF
}

// Moderation renders "PRIVMSG #channel :/cmd args\r\n" for any of Trovo's
// slash-command moderation actions (/slow, /r9kbeta, /emoteonlyoff, /unraid,
// /color, /timeout, /ban, ...). A command with enough args to exceed the
// wire budget (e.g. a batch /ban list) is split across multiple frames,
// each repeating cmd, the same way Privmsg splits an overlong body.
func (e Encoder) Moderation(channel, cmd string, args ...string) []string {
	channel = normalizeChannel(channel)
	prefix := "/" + cmd
	if len(args) == 0 {
		return []string{e.render(CmdPrivmsg, channel, COLON+prefix)}
	}

	budget := maxBodyLength - len(prefix) - 1
	if budget < 1 {
		budget = 1
	}
	chunks := wirewrap.ChunkJoinStrings(budget, " ", args...)
	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		out[i] = e.render(CmdPrivmsg, channel, COLON+prefix+" "+chunk)
	}
	return out
}

// Quit renders "QUIT :reason\r\n".
func (e Encoder) Quit(reason string) string {
	return e.render(CmdQuit, COLON+reason)
}

// Nick renders "NICK name\r\n".
func (e Encoder) Nick(name string) string {
	return e.render(CmdNick, name)
}

// Pass renders "PASS token\r\n".
func (e Encoder) Pass(token string) string {
	return e.render(CmdPass, token)
}

// CapReq renders "CAP REQ :trovo.tv/<capability>\r\n".
func (e Encoder) CapReq(cap Capability) (string, bool) {
	tok, ok := cap.encodeAsStr()
	if !ok {
		return "", false
	}
	return e.render(CmdCap, "REQ", COLON+tok), true
}
