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

func TestBuildTagIndices(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Tags
	}{
		{
			name:     "no tags prefix",
			input:    "PRIVMSG #channel :hi",
			expected: nil,
		},
		{
			name:     "single tag",
			input:    "@mod=1",
			expected: Tags{"mod": "1"},
		},
		{
			name:     "multiple tags",
			input:    "@badges=moderator/1;color=#FF0000;mod=1",
			expected: Tags{"badges": "moderator/1", "color": "#FF0000", "mod": "1"},
		},
		{
			name:     "empty value is legal",
			input:    "@display-name=;mod=1",
			expected: Tags{"display-name": "", "mod": "1"},
		},
		{
			name:     "empty key is dropped",
			input:    "@=value;mod=1",
			expected: Tags{"mod": "1"},
		},
		{
			name:     "duplicate key keeps first match",
			input:    "@mod=1;mod=0",
			expected: Tags{"mod": "1"},
		},
		{
			name:     "trailing semicolon",
			input:    "@mod=1;",
			expected: Tags{"mod": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := borrowedStr(tt.input)
			indices := buildTagIndices(tt.input)
			got := TagsFrom(data, indices)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTagIndicesGet(t *testing.T) {
	input := "@badges=moderator/1;mod=1;display-name=SomeUser"
	data := borrowedStr(input)
	indices := buildTagIndices(input)

	v, ok := indices.Get(data, "mod")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = indices.Get(data, "missing")
	assert.False(t, ok)
}

func TestTagsRender(t *testing.T) {
	tests := []struct {
		name     string
		tags     Tags
		expected string
	}{
		{"empty", Tags{}, ""},
		{"nil", nil, ""},
		{"single", Tags{"mod": "1"}, "@mod=1"},
		{"sorted by key", Tags{"mod": "1", "color": "#FF0000"}, "@color=#FF0000;mod=1"},
		{"empty value omits equals", Tags{"display-name": ""}, "@display-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tags.Render())
		})
	}
}
