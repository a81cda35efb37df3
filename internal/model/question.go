package model

import (
	"examprep-backend/internal/diagram"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	DefaultTopic      = "General"
	DefaultDifficulty = DifficultyMedium
	DefaultMarkScheme = "Mark scheme not available"
)

// Question 是模型返回的一道题，Diagrams 在组装阶段填充
type Question struct {
	Question            string             `json:"question"`
	Topic               string             `json:"topic,omitempty"`
	Difficulty          string             `json:"difficulty,omitempty"`
	MarkScheme          string             `json:"mark_scheme,omitempty"`
	DiagramDescriptions []string           `json:"diagram_descriptions,omitempty"`
	Diagrams            []*diagram.Diagram `json:"diagrams,omitempty"`
}

// DisplayTopic, DisplayDifficulty and DisplayMarkScheme substitute the
// defaults for fields the model left out.
func (q *Question) DisplayTopic() string {
	return orDefault(q.Topic, DefaultTopic)
}

func (q *Question) DisplayDifficulty() string {
	return orDefault(q.Difficulty, DefaultDifficulty)
}

func (q *Question) DisplayMarkScheme() string {
	return orDefault(q.MarkScheme, DefaultMarkScheme)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
