package model

import (
	"fmt"
	"time"

	"examprep-backend/internal/catalog"
)

type Session struct {
	ID        string     `json:"id"`
	Level     string     `json:"level"`
	Subject   string     `json:"subject"`
	Topics    []string   `json:"topics"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone copies the slices so callers can't mutate stored state. Rendered
// diagrams are immutable once produced and stay shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Topics = append([]string(nil), s.Topics...)
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.DiagramDescriptions = append([]string(nil), q.DiagramDescriptions...)
		q.Diagrams = append(q.Diagrams[:0:0], q.Diagrams...)
		c.Questions[i] = q
	}
	return &c
}

// SubjectKey 与目录中的主题键一致
func (s *Session) SubjectKey() string {
	return catalog.Key(s.Level, s.Subject)
}

type SessionResponse struct {
	SessionID     string    `json:"session_id"`
	Level         string    `json:"level"`
	Subject       string    `json:"subject"`
	Topics        []string  `json:"topics"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewSessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		SessionID:     s.ID,
		Level:         s.Level,
		Subject:       s.Subject,
		Topics:        s.Topics,
		QuestionCount: len(s.Questions),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type DiagramView struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Strategy    string `json:"strategy"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// QuestionView is a question as shown to the client, with display defaults
// applied and diagrams referenced by URL instead of inlined.
type QuestionView struct {
	Number     int           `json:"number"`
	Question   string        `json:"question"`
	Topic      string        `json:"topic"`
	Difficulty string        `json:"difficulty"`
	MarkScheme string        `json:"mark_scheme"`
	Diagrams   []DiagramView `json:"diagrams"`
}

func NewQuestionViews(sessionID string, questions []Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i := range questions {
		q := &questions[i]
		diagrams := make([]DiagramView, len(q.Diagrams))
		for j, d := range q.Diagrams {
			diagrams[j] = DiagramView{
				Index:       d.Index,
				Title:       d.Title,
				Strategy:    d.Strategy.String(),
				Description: d.Description,
				URL:         fmt.Sprintf("/api/session/%s/questions/%d/diagrams/%d", sessionID, i+1, j+1),
			}
		}
		views[i] = QuestionView{
			Number:     i + 1,
			Question:   q.Question,
			Topic:      q.DisplayTopic(),
			Difficulty: q.DisplayDifficulty(),
			MarkScheme: q.DisplayMarkScheme(),
			Diagrams:   diagrams,
		}
	}
	return views
}

type CatalogResponse struct {
	Levels       []string            `json:"levels"`
	Subjects     map[string][]string `json:"subjects"`
	Formats      []catalog.Format    `json:"formats"`
	Difficulties []string            `json:"difficulties"`
	Models       []string            `json:"models"`
	DefaultModel string              `json:"default_model"`
}

// StreamEvent 是 SSE 推送的数据体
type StreamEvent struct {
	Type      string        `json:"type"` // status | question | error | done
	Message   string        `json:"message,omitempty"`
	Question  *QuestionView `json:"question,omitempty"`
	Raw       string        `json:"raw,omitempty"`
	Total     int           `json:"total,omitempty"`
	Timestamp int64         `json:"timestamp"`
}
