/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import "sort"

// tagMode tracks which half of a "key=value" pair the scanner is extending.
type tagMode int

const (
	tagModeHead tagMode = iota
	tagModeTail
)

// TagIndices is an ordered set of (key, value) index pairs parsed out of an
// IRCv3 "@k=v;k2=v2" tags fragment. It shares its backing Str with whatever
// produced it; duplicate keys are tolerated and lookup returns the first
// match. Empty values are legal, empty keys are not and are dropped.
type TagIndices struct {
	pairs []tagPair
}

type tagPair struct {
	key   StrIndex
	value StrIndex
}

// buildTagIndices parses the tags fragment of frame (the companion Str).
// input must be the same string backing frame, or the returned indices are
// meaningless. If input does not begin with '@', an empty TagIndices is
// returned.
func buildTagIndices(input string) TagIndices {
	if len(input) == 0 || input[0] != '@' {
		return TagIndices{}
	}

	pairs := make([]tagPair, 0, countByte(input, ';')+1)

	key := newIndex(1)
	value := newIndex(1)
	mode := tagModeHead

	for i := 1; i < len(input); i++ {
		switch input[i] {
		case ';':
			if !key.IsEmpty() {
				pairs = append(pairs, tagPair{key: key, value: value})
			}
			key.resetAt(i + 1)
			value.resetAt(i + 1)
			mode = tagModeHead
		case '=':
			mode = tagModeTail
			value.resetAt(i + 1)
		default:
			switch mode {
			case tagModeHead:
				key.extendTo(i + 1)
			case tagModeTail:
				value.extendTo(i + 1)
			}
		}
	}

	if !key.IsEmpty() {
		pairs = append(pairs, tagPair{key: key, value: value})
	}

	return TagIndices{pairs: pairs}
}

func countByte(s string, b byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			n++
		}
	}
	return n
}

// Len returns the number of parsed tags.
func (t TagIndices) Len() int {
	return len(t.pairs)
}

// IsEmpty reports whether no tags were parsed.
func (t TagIndices) IsEmpty() bool {
	return len(t.pairs) == 0
}

// Get returns the value for key against the given backing Str, the same one
// build indices was built from. It returns the first match if key repeats.
func (t TagIndices) Get(data Str, key string) (string, bool) {
	for _, p := range t.pairs {
		if p.key.Slice(data) == key {
			return p.value.Slice(data), true
		}
	}
	return "", false
}

// Range calls do for every (key, value) pair in parse order.
func (t TagIndices) Range(data Str, do func(key, value string)) {
	for _, p := range t.pairs {
		do(p.key.Slice(data), p.value.Slice(data))
	}
}

// Tags is the owned, map-based projection of a TagIndices for callers that
// want a conventional map rather than index lookups.
type Tags map[string]string

// TagsFrom materializes an owned map from indices and their backing Str.
func TagsFrom(data Str, indices TagIndices) Tags {
	if indices.IsEmpty() {
		return nil
	}
	out := make(Tags, indices.Len())
	indices.Range(data, func(k, v string) {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	})
	return out
}

// Render renders tags back into "@k=v;k2=v2" wire form, sorted by key for
// determinism. An empty Tags renders to the empty string (no '@' prefix).
func (t Tags) Render() string {
	if len(t) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 64)
	buf = append(buf, '@')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ';')
		}
		buf = append(buf, k...)
		if v := t[k]; v != "" {
			buf = append(buf, '=')
			buf = append(buf, v...)
		}
	}
	return string(buf)
}
