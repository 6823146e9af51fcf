/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"strconv"
	"strings"
)

// RawMessage is the tuple (tags?, source?, command, args[], data?) expressed
// as indices over one backing Str. command is the only required field.
//
//	<message>  = ['@' <tags> <SPACE>] [':' <source> <SPACE>] <command> <params> <crlf>
//	<params>   = *(<SPACE> <middle>) [<SPACE> ':' <trailing>]
type RawMessage struct {
	raw     Str
	tags    TagIndices
	hasTags bool
	source  StrIndex
	hasSrc  bool
	command StrIndex
	args    []StrIndex
	data    StrIndex
	hasData bool
}

// parseRaw decomposes a single CRLF-stripped frame into a RawMessage. frame
// must be the exact string backing raw, or the produced indices are
// meaningless.
func parseRaw(raw Str) (RawMessage, error) {
	frame := raw.String()
	msg := RawMessage{raw: raw}

	pos := 0

	if len(frame) > 0 && frame[0] == '@' {
		end := strings.IndexByte(frame, ' ')
		if end < 0 {
			end = len(frame)
		}
		msg.tags = buildTagIndices(frame[:end])
		msg.hasTags = true
		pos = skipSpaces(frame, end)
	}

	if pos < len(frame) && frame[pos] == ':' {
		start := pos + 1
		if rest := strings.IndexByte(frame[start:], ' '); rest < 0 {
			msg.source = StrIndex{Start: start, End: len(frame)}
			msg.hasSrc = true
			pos = len(frame)
		} else {
			msg.source = StrIndex{Start: start, End: start + rest}
			msg.hasSrc = true
			pos = skipSpaces(frame, start+rest)
		}
	}

	cmdStart := pos
	for pos < len(frame) && frame[pos] != ' ' {
		pos++
	}
	if cmdStart == pos {
		return RawMessage{}, &FrameError{Err: ErrIncompleteFrame, Data: frame}
	}
	msg.command = StrIndex{Start: cmdStart, End: pos}
	pos = skipSpaces(frame, pos)

	for pos < len(frame) {
		if frame[pos] == ':' {
			msg.data = StrIndex{Start: pos + 1, End: len(frame)}
			msg.hasData = true
			break
		}
		start := pos
		for pos < len(frame) && frame[pos] != ' ' {
			pos++
		}
		msg.args = append(msg.args, StrIndex{Start: start, End: pos})
		pos = skipSpaces(frame, pos)
	}

	return msg, nil
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && s[pos] == ' ' {
		pos++
	}
	return pos
}

// Raw returns the original, untouched frame text.
func (m RawMessage) Raw() string {
	return m.raw.String()
}

// Command returns the message's command token (verb or numeric).
func (m RawMessage) Command() string {
	return m.command.Slice(m.raw)
}

// Source returns the source (prefix) segment and whether one was present.
func (m RawMessage) Source() (string, bool) {
	if !m.hasSrc {
		return "", false
	}
	return m.source.Slice(m.raw), true
}

// Nick returns the nickname portion of the source, the text before '!', if
// a source is present.
func (m RawMessage) Nick() (string, bool) {
	src, ok := m.Source()
	if !ok {
		return "", false
	}
	if i := strings.IndexByte(src, '!'); i >= 0 {
		return src[:i], true
	}
	return src, true
}

// NArgs returns the number of positional arguments.
func (m RawMessage) NArgs() int {
	return len(m.args)
}

// NthArg returns the i-th positional argument, if present.
func (m RawMessage) NthArg(i int) (string, bool) {
	if i < 0 || i >= len(m.args) {
		return "", false
	}
	return m.args[i].Slice(m.raw), true
}

// Data returns the trailing (post-':') segment, if present.
func (m RawMessage) Data() (string, bool) {
	if !m.hasData {
		return "", false
	}
	return m.data.Slice(m.raw), true
}

// Tags returns the parsed tag indices, which may be empty.
func (m RawMessage) Tags() TagIndices {
	return m.tags
}

// HasTags reports whether the frame carried a tags prefix at all.
func (m RawMessage) HasTags() bool {
	return m.hasTags
}

// Tag looks up a single tag value by key.
func (m RawMessage) Tag(key string) (string, bool) {
	if !m.hasTags {
		return "", false
	}
	return m.tags.Get(m.raw, key)
}

// IntoOwned promotes the message's backing string to an owned copy so it can
// outlive the frame buffer it was parsed from.
func (m RawMessage) IntoOwned() RawMessage {
	m.raw = m.raw.IntoOwned()
	return m
}

// expectCommand fails unless the message's command equals name.
func (m RawMessage) expectCommand(name string) error {
	got := m.Command()
	if got != name {
		return &CommandError{Want: name, Got: got}
	}
	return nil
}

// expectArg fails unless positional argument i is present.
func (m RawMessage) expectArg(i int) (string, error) {
	arg, ok := m.NthArg(i)
	if !ok {
		return "", &ArgError{Index: i, Raw: m.Raw()}
	}
	return arg, nil
}

// expectData fails unless the trailing data segment is present.
func (m RawMessage) expectData() (string, error) {
	data, ok := m.Data()
	if !ok {
		return "", &FrameError{Err: ErrExpectedData, Data: m.Raw()}
	}
	return data, nil
}

// expectTag fails unless tag key is present.
func (m RawMessage) expectTag(key string) (string, error) {
	val, ok := m.Tag(key)
	if !ok {
		return "", expectedTagError(key, m.Raw())
	}
	return val, nil
}

// expectTagInt parses tag key as a base-10 integer if present. ok is false
// if the tag is simply absent (not an error); a present but malformed value
// fails with a CannotParseTag error.
func (m RawMessage) expectTagInt(key string) (n int, ok bool, err error) {
	val, present := m.Tag(key)
	if !present {
		return 0, false, nil
	}
	n, perr := strconv.Atoi(val)
	if perr != nil {
		return 0, false, cannotParseTagError(key, m.Raw(), perr.Error())
	}
	return n, true, nil
}
