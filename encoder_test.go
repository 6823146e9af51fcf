/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncoderWireForms(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		name     string
		render   func() string
		expected string
	}{
		{"join", func() string { return e.Join("museun") }, "JOIN #museun\r\n"},
		{"part", func() string { return e.Part("museun") }, "PART #museun\r\n"},
		{"ping", func() string { return e.Ping("tok") }, "PING :tok\r\n"},
		{"pong", func() string { return e.Pong("tok") }, "PONG :tok\r\n"},
		{"nick", func() string { return e.Nick("someuser") }, "NICK someuser\r\n"},
		{"pass", func() string { return e.Pass("oauth:abc") }, "PASS oauth:abc\r\n"},
		{"quit", func() string { return e.Quit("bye") }, "QUIT :bye\r\n"},
		{"whisper", func() string { return e.Whisper("target", "hey") }, "PRIVMSG #jtv :/w target hey\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.render())
		})
	}
}

func TestEncoderChannelNormalization(t *testing.T) {
	e := NewEncoder()
	// Scenario 7: join("museun") and join("#museun") both produce "JOIN #museun\r\n".
	assert.Equal(t, e.Join("museun"), e.Join("#museun"))
	assert.Equal(t, "JOIN #museun\r\n", e.Join("museun"))
}

func TestEncoderPrivmsgSingleFrame(t *testing.T) {
	e := NewEncoder()
	lines := e.Privmsg("ch", "hello world")
	assert.Equal(t, []string{"PRIVMSG #ch :hello world\r\n"}, lines)
}

func TestEncoderPrivmsgSplitsLongBody(t *testing.T) {
	e := NewEncoder()
	body := strings.Repeat("a", maxBodyLength*3)
	lines := e.Privmsg("ch", body)
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "PRIVMSG #ch :"))
		assert.True(t, strings.HasSuffix(line, CRLF))
	}
}

func TestEncoderModerationNoArgs(t *testing.T) {
	e := NewEncoder()
	lines := e.Moderation("ch", "emoteonly")
	assert.Equal(t, []string{"PRIVMSG #ch :/emoteonly\r\n"}, lines)
}

func TestEncoderModerationWithArgs(t *testing.T) {
	e := NewEncoder()
	lines := e.Moderation("ch", "timeout", "user", "60")
	assert.Equal(t, []string{"PRIVMSG #ch :/timeout user 60\r\n"}, lines)
}

func TestEncoderModerationSplitsLongArgList(t *testing.T) {
	e := NewEncoder()
	args := make([]string, 200)
	for i := range args {
		args[i] = "user1234567890"
	}
	lines := e.Moderation("ch", "ban", args...)
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "PRIVMSG #ch :/ban "))
		assert.True(t, strings.HasSuffix(line, CRLF))
		assert.LessOrEqual(t, len(line), maxBodyLength+len("PRIVMSG #ch :")+len(CRLF)+1)
	}
}

func TestEncoderReply(t *testing.T) {
	e := NewEncoder()
	line := e.Reply("ch", "msg-id-123", "thanks")
	assert.Equal(t, "@reply-parent-msg-id=msg-id-123 PRIVMSG #ch :thanks\r\n", line)
}

func TestEncoderRawAddsTerminatorOnce(t *testing.T) {
	e := NewEncoder()
	assert.Equal(t, "RAW LINE\r\n", e.Raw("RAW LINE"))
	assert.Equal(t, "RAW LINE\r\n", e.Raw("RAW LINE\r\n"))
}

func TestEncoderCapReq(t *testing.T) {
	e := NewEncoder()
	line, ok := e.CapReq(Membership)
	assert.True(t, ok)
	assert.Equal(t, "CAP REQ :trovo.tv/membership\r\n", line)

	_, ok = e.CapReq(Capability(99))
	assert.False(t, ok)
}
