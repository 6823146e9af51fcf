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

	"github.com/stretchr/testify/assert"
)

func TestArgErrorUnwrap(t *testing.T) {
	err := &ArgError{Index: 2, Raw: "PRIVMSG"}
	assert.True(t, errors.Is(err, ErrExpectedArg))
	assert.Contains(t, err.Error(), "wanted arg 2")
}

func TestTagErrorUnwrap(t *testing.T) {
	missing := expectedTagError("mod", "USERSTATE #ch")
	assert.True(t, errors.Is(missing, ErrExpectedTag))
	assert.False(t, errors.Is(missing, ErrCannotParseTag))

	unparsable := cannotParseTagError("badge-info", "@badge-info=x", "not an integer")
	assert.True(t, errors.Is(unparsable, ErrCannotParseTag))
	assert.Contains(t, unparsable.Error(), "not an integer")
}

func TestCommandErrorUnwrap(t *testing.T) {
	err := &CommandError{Want: "PRIVMSG", Got: "PING"}
	assert.True(t, errors.Is(err, ErrUnexpectedCommand))
	assert.Contains(t, err.Error(), "PRIVMSG")
	assert.Contains(t, err.Error(), "PING")
}

func TestFrameErrorUnwrap(t *testing.T) {
	err := &FrameError{Err: ErrFrameTooLong, Data: "partial"}
	assert.True(t, errors.Is(err, ErrFrameTooLong))
	assert.Contains(t, err.Error(), "partial")

	bare := &FrameError{Err: ErrEOF}
	assert.Equal(t, string(ErrEOF), bare.Error())
}

func TestRegistrationErrorUnwrap(t *testing.T) {
	err := &RegistrationError{Reason: "bad auth"}
	assert.True(t, errors.Is(err, ErrRegistration))
	assert.Contains(t, err.Error(), "bad auth")
}
