/*
   Copyright (c) 2023, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package trovochat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectErr   bool
		wantCommand string
	}{
		{
			name:        "valid message with CRLF",
			input:       "PRIVMSG #ch :I am the client\r\n",
			wantCommand: "PRIVMSG",
		},
		{
			name:        "valid message without terminator",
			input:       "PING :1234567890",
			wantCommand: "PING",
		},
		{
			name:      "empty frame",
			input:     "",
			expectErr: true,
		},
		{
			name:      "all whitespace trims to empty",
			input:     "\r\n",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCommand, msg.Command())
		})
	}
}

func TestDecodeOwnedPromotesBackingString(t *testing.T) {
	msg, err := DecodeOwned("PRIVMSG #ch :hello\r\n")
	assert.NoError(t, err)
	assert.True(t, msg.raw.IsOwned())
	assert.Equal(t, "PRIVMSG", msg.Command())
	data, ok := msg.Data()
	assert.True(t, ok)
	assert.Equal(t, "hello", data)
}

func TestDecodeDoesNotPromote(t *testing.T) {
	msg, err := Decode("PRIVMSG #ch :hello\r\n")
	assert.NoError(t, err)
	assert.False(t, msg.raw.IsOwned())
}
