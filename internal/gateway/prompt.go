package gateway

import (
	"context"
	"fmt"
	"strings"

	"examprep-backend/internal/catalog"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// PromptParams 描述一次出题请求
type PromptParams struct {
	Level      string
	Subject    string
	Topics     []string
	Count      int
	Difficulty string
	Format     string
}

const questionPrompt = `You are an exam question generator for {{.level}} {{.subject}}. Generate {{.count}} high-quality past paper style questions covering the following topics: {{.topics}}.

{{.difficulty_policy}}
{{.format_policy}}

The questions should:
1. Match real {{.level}} {{.subject}} exam questions in style, format, and complexity
2. Include a detailed mark scheme showing how points are awarded
3. Be clearly labeled with their difficulty level (Easy, Medium, or Hard)
4. Include diagrams where appropriate - describe any needed diagrams in detail by enclosing the description in [DIAGRAM: description] tags

For each question, provide:
- The question itself
- The topic it covers
- The difficulty level
- A detailed mark scheme
- Any diagram descriptions in [DIAGRAM: description] format

Format your response as a JSON array of questions with the following structure:
` + "```json" + `
[
  {
    "question": "The full text of the question...",
    "topic": "The specific topic",
    "difficulty": "Easy|Medium|Hard",
    "mark_scheme": "The full mark scheme...",
    "diagram_descriptions": ["Description 1", "Description 2"]
  }
]
` + "```" + `
Only include "diagram_descriptions" when diagrams are needed.

The generated questions should be challenging but fair, and should test understanding rather than just recall. Make the questions engaging and relevant to real-world applications where possible.
`

var questionTemplate = prompt.FromMessages(schema.GoTemplate, schema.UserMessage(questionPrompt))

func difficultyPolicy(difficulty string) string {
	if difficulty == "" || difficulty == catalog.Mixed {
		return "Mix the difficulty levels with approximately equal numbers of Easy, Medium, and Hard questions."
	}
	return fmt.Sprintf("All questions should be of %s difficulty level.", difficulty)
}

func formatPolicy(format string) string {
	instruction, ok := catalog.FormatInstruction(format)
	if !ok {
		return "Mix question types including multiple choice, short answer, calculation, and extended response formats."
	}
	return fmt.Sprintf("All questions should be in the %s format: %s", format, instruction)
}

// BuildPrompt renders the generation prompt into chat messages ready for
// the model.
func BuildPrompt(ctx context.Context, p PromptParams) ([]*schema.Message, error) {
	msgs, err := questionTemplate.Format(ctx, map[string]any{
		"level":             p.Level,
		"subject":           p.Subject,
		"count":             p.Count,
		"topics":            strings.Join(p.Topics, ", "),
		"difficulty_policy": difficultyPolicy(p.Difficulty),
		"format_policy":     formatPolicy(p.Format),
	})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}
	return msgs, nil
}
