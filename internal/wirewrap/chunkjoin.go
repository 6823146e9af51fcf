/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package wirewrap splits outbound PRIVMSG bodies and moderation argument
// lists that exceed the wire's line-length budget into multiple frames.
package wirewrap

import (
	"bytes"

	"github.com/mitchellh/go-wordwrap"
)

// ChunkJoinStrings joins params with sep, starting a new chunk whenever the
// next piece would push the running chunk past maxlength.
func ChunkJoinStrings(maxlength int, sep string, params ...string) []string {
	var buffer bytes.Buffer
	currentLength := 0
	var joined []string
	nextBuffer := false

	for i := range params {
		if currentLength+len(params[i]) <= maxlength {
			buffer.WriteString(params[i])
			currentLength += len(params[i])
		} else {
			nextBuffer = true
		}

		if i+1 < len(params) && currentLength+len(sep)+len(params[i+1]) <= maxlength {
			buffer.WriteString(sep)
			currentLength += len(sep)
		} else {
			nextBuffer = true
		}

		if nextBuffer {
			currentLength = 0
			nextBuffer = false
			joined = append(joined, buffer.String())
			buffer.Reset()
		}
	}

	if buffer.Len() > 0 {
		joined = append(joined, buffer.String())
	}

	return joined
}

// Body splits a single long message body into wire-safe lines of at most
// maxlength bytes, breaking on word boundaries where possible before
// falling back to a hard split.
func Body(maxlength int, body string) []string {
	if len(body) <= maxlength {
		return []string{body}
	}
	wrapped := wordwrap.WrapString(body, uint(maxlength))
	lines := bytes.Split([]byte(wrapped), []byte{'\n'})
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := string(line)
		if len(s) <= maxlength {
			out = append(out, s)
			continue
		}
		for len(s) > maxlength {
			out = append(out, s[:maxlength])
			s = s[maxlength:]
		}
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}
