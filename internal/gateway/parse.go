package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"examprep-backend/internal/model"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	fencedJSON = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	looseArray = regexp.MustCompile(`\[\s*{[\s\S]*}\s*\]`)
)

// ExtractJSON locates the JSON payload in a model reply: a ```json fenced
// block first, then the widest [ {...} ] span, else the whole text.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := looseArray.FindString(text); m != "" {
		return m
	}
	return text
}

const questionSchemaURL = "schema://questions.json"

// 只约束必需的结构，可选字段缺失时在展示层补默认值
const questionSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["question"],
    "properties": {
      "question": {"type": "string"},
      "topic": {"type": ["string", "null"]},
      "difficulty": {"type": ["string", "null"]},
      "mark_scheme": {
        "type": ["string", "array", "null"],
        "items": {"type": "string"}
      },
      "diagram_descriptions": {
        "type": ["array", "null"],
        "items": {"type": "string"}
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func questionsValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(questionSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(questionSchemaURL)
	})
	return compiled, compileErr
}

// ParseQuestions extracts, validates and decodes the question array from a
// raw model reply. Every failure is a *ParseError carrying the raw reply.
func ParseQuestions(raw string) ([]model.Question, error) {
	payload := ExtractJSON(raw)

	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	validator, err := questionsValidator()
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if err := validator.Validate(parsed); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var records []questionRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	questions := make([]model.Question, len(records))
	for i, r := range records {
		questions[i] = model.Question{
			Question:            r.Question,
			Topic:               r.Topic,
			Difficulty:          r.Difficulty,
			MarkScheme:          string(r.MarkScheme),
			DiagramDescriptions: r.DiagramDescriptions,
		}
	}
	return questions, nil
}

// questionRecord 是模型返回的原始结构，null 字段解码为空串
type questionRecord struct {
	Question            string     `json:"question"`
	Topic               string     `json:"topic"`
	Difficulty          string     `json:"difficulty"`
	MarkScheme          markScheme `json:"mark_scheme"`
	DiagramDescriptions []string   `json:"diagram_descriptions"`
}

// markScheme accepts either a string or a list of marking points, which are
// joined one per line.
type markScheme string

func (m *markScheme) UnmarshalJSON(data []byte) error {
	var points []string
	if err := json.Unmarshal(data, &points); err == nil {
		*m = markScheme(strings.Join(points, "\n"))
		return nil
	}
	var text *string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	if text != nil {
		*m = markScheme(*text)
	}
	return nil
}
