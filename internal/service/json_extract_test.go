package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"answer":"ok"}`,
			want:  `{"answer":"ok"}`,
		},
		{
			name:  "fenced markdown",
			input: "```json\n{\"answer\":\"ok\"}\n```",
			want:  `{"answer":"ok"}`,
		},
		{
			name:  "chatty preamble and trailer",
			input: `Sure! Here you go: {"answer":"ok"} Hope that helps.`,
			want:  `{"answer":"ok"}`,
		},
		{
			name:  "nested objects",
			input: `{"a":{"b":{"c":1}},"d":2}`,
			want:  `{"a":{"b":{"c":1}},"d":2}`,
		},
		{
			name:  "braces inside strings",
			input: `{"answer":"use {curly} braces"}`,
			want:  `{"answer":"use {curly} braces"}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"answer":"she said \"hi\""}`,
			want:  `{"answer":"she said \"hi\""}`,
		},
		{
			name:  "no object",
			input: "plain text only",
			want:  "",
		},
		{
			name:  "unbalanced",
			input: `{"answer":"truncated`,
			want:  "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, extractFirstJSONObject(c.input))
		})
	}
}
