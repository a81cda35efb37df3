package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced block",
			in:   "Here you go:\n```json\n[{\"question\": \"Q\"}]\n```\nGood luck!",
			want: `[{"question": "Q"}]`,
		},
		{
			name: "loose array in prose",
			in:   `Sure! [ {"question": "Q1"}, {"question": "Q2"} ] Hope this helps.`,
			want: `[ {"question": "Q1"}, {"question": "Q2"} ]`,
		},
		{
			name: "whole payload",
			in:   `{"question": "not an array"}`,
			want: `{"question": "not an array"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestParseQuestions(t *testing.T) {
	raw := "```json\n" + `[
  {
    "question": "Calculate the current. [DIAGRAM: circuit with a battery]",
    "topic": "Electricity",
    "difficulty": "Hard",
    "mark_scheme": "I = V/R (1 mark)",
    "diagram_descriptions": ["graph of current against voltage"]
  },
  {"question": "Define velocity."}
]` + "\n```"

	questions, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Electricity", questions[0].Topic)
	assert.Equal(t, []string{"graph of current against voltage"}, questions[0].DiagramDescriptions)
	assert.Equal(t, "Define velocity.", questions[1].Question)
	assert.Equal(t, "General", questions[1].DisplayTopic())
	assert.Equal(t, "Medium", questions[1].DisplayDifficulty())
	assert.Equal(t, "Mark scheme not available", questions[1].DisplayMarkScheme())
}

func TestParseQuestions_LenientOptionalFields(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		topic  string
		scheme string
	}{
		{
			name:   "null optional fields",
			raw:    `[{"question": "Q1", "topic": null, "difficulty": null, "mark_scheme": null, "diagram_descriptions": null}]`,
			topic:  "General",
			scheme: "Mark scheme not available",
		},
		{
			name:   "mark scheme as list of points",
			raw:    `[{"question": "Q1", "topic": "Forces", "mark_scheme": ["F = ma [1]", "a = 2 m/s^2 [1]"]}]`,
			topic:  "Forces",
			scheme: "F = ma [1]\na = 2 m/s^2 [1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := ParseQuestions(tt.raw)
			require.NoError(t, err)
			require.Len(t, questions, 1)
			assert.Equal(t, tt.topic, questions[0].DisplayTopic())
			assert.Equal(t, "Medium", questions[0].DisplayDifficulty())
			assert.Equal(t, tt.scheme, questions[0].DisplayMarkScheme())
		})
	}
}

func TestParseQuestions_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I cannot help with that."},
		{"object instead of array", `{"question": "Q"}`},
		{"missing question", `[{"topic": "Algebra"}]`},
		{"wrong type", `[{"question": 42}]`},
		{"mark scheme list of numbers", `[{"question": "Q", "mark_scheme": [1, 2]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.raw)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}
