/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRawMessage(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantCommand string
		wantSource  string
		hasSource   bool
		wantArgs    []string
		wantData    string
		hasData     bool
	}{
		{
			name:        "simple command, no source, no data",
			input:       "PING",
			wantCommand: "PING",
		},
		{
			name:        "command with trailing data",
			input:       "PING :1234567890",
			wantCommand: "PING",
			wantData:    "1234567890",
			hasData:     true,
		},
		{
			name:        "sourced command with one arg and data",
			input:       ":tmi.trovo.tv CAP * ACK :trovo.tv/membership",
			wantCommand: "CAP",
			wantSource:  "tmi.trovo.tv",
			hasSource:   true,
			wantArgs:    []string{"*", "ACK"},
			wantData:    "trovo.tv/membership",
			hasData:     true,
		},
		{
			name:        "privmsg with nick!user@host source",
			input:       ":u!u@u.tmi.trovo.tv PRIVMSG #ch :hello world",
			wantCommand: "PRIVMSG",
			wantSource:  "u!u@u.tmi.trovo.tv",
			hasSource:   true,
			wantArgs:    []string{"#ch"},
			wantData:    "hello world",
			hasData:     true,
		},
		{
			name:        "args with no trailing data",
			input:       "USERSTATE #ch",
			wantCommand: "USERSTATE",
			wantArgs:    []string{"#ch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseRaw(borrowedStr(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCommand, msg.Command())

			src, ok := msg.Source()
			assert.Equal(t, tt.hasSource, ok)
			if tt.hasSource {
				assert.Equal(t, tt.wantSource, src)
			}

			assert.Equal(t, len(tt.wantArgs), msg.NArgs())
			for i, want := range tt.wantArgs {
				got, ok := msg.NthArg(i)
				assert.True(t, ok)
				assert.Equal(t, want, got)
			}

			data, ok := msg.Data()
			assert.Equal(t, tt.hasData, ok)
			if tt.hasData {
				assert.Equal(t, tt.wantData, data)
			}
		})
	}
}

func TestParseRawMessageTags(t *testing.T) {
	input := "@id=abc;badge-info=subscriber/13 :u!u@u.tmi.trovo.tv PRIVMSG #ch :hello world"
	msg, err := parseRaw(borrowedStr(input))
	assert.NoError(t, err)
	assert.True(t, msg.HasTags())

	id, ok := msg.Tag("id")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	badge, ok := msg.Tag("badge-info")
	assert.True(t, ok)
	assert.Equal(t, "subscriber/13", badge)

	_, ok = msg.Tag("missing")
	assert.False(t, ok)
}

func TestParseRawMessageNick(t *testing.T) {
	msg, err := parseRaw(borrowedStr(":u!u@u.tmi.trovo.tv PRIVMSG #ch :hi"))
	assert.NoError(t, err)
	nick, ok := msg.Nick()
	assert.True(t, ok)
	assert.Equal(t, "u", nick)
}

func TestParseRawMessageEmptyCommand(t *testing.T) {
	_, err := parseRaw(borrowedStr(""))
	assert.Error(t, err)
}

func TestRawMessageIntoOwned(t *testing.T) {
	frame := "PRIVMSG #ch :hi"
	msg, err := parseRaw(borrowedStr(frame))
	assert.NoError(t, err)
	assert.False(t, msg.raw.IsOwned())

	owned := msg.IntoOwned()
	assert.True(t, owned.raw.IsOwned())
	assert.Equal(t, msg.Command(), owned.Command())
}
