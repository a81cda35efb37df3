package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"examprep-backend/internal/catalog"
	"examprep-backend/internal/config"
	"examprep-backend/internal/diagram"
	"examprep-backend/internal/gateway"
	"examprep-backend/internal/model"
	"examprep-backend/pkg/logger"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ProgressFunc receives generation progress. It is called on the
// generating goroutine.
type ProgressFunc func(event model.StreamEvent)

type QuestionService struct {
	sessions *SessionService
	gateway  gateway.Gateway
	renderer *diagram.Renderer
	models   []string
	defModel string
	seed     int64
	calls    atomic.Uint64
}

func NewQuestionService(cfg *config.Config, sessions *SessionService, gw gateway.Gateway, renderer *diagram.Renderer) *QuestionService {
	return &QuestionService{
		sessions: sessions,
		gateway:  gw,
		renderer: renderer,
		models:   cfg.LLM.Models,
		defModel: cfg.LLM.Model,
		seed:     cfg.Diagram.Seed,
	}
}

func (s *QuestionService) Models() []string {
	return lo.Uniq(append([]string{s.defModel}, s.models...))
}

func (s *QuestionService) DefaultModel() string {
	return s.defModel
}

// Generate runs one generation for the session and stores the assembled
// questions. Any failure leaves the session with an empty result list.
func (s *QuestionService) Generate(ctx context.Context, sessionID string, req model.GenerateRequest) ([]model.Question, error) {
	return s.GenerateWithProgress(ctx, sessionID, req, nil)
}

func (s *QuestionService) GenerateWithProgress(ctx context.Context, sessionID string, req model.GenerateRequest, progress ProgressFunc) ([]model.Question, error) {
	if progress == nil {
		progress = func(model.StreamEvent) {}
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	params, err := s.params(session, &req)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"subject":    session.SubjectKey(),
		"count":      params.Count,
		"model":      req.Model,
	})
	log.Info("generating questions")
	progress(statusEvent(fmt.Sprintf("Generating %d %s %s questions...", params.Count, session.Level, session.Subject)))

	questions, err := s.generate(ctx, params, req, progress)
	if err != nil {
		log.Warnf("generation failed: %v", err)
		if _, clearErr := s.sessions.ClearQuestions(sessionID); clearErr != nil {
			log.Errorf("failed to clear results: %v", clearErr)
		}
		return nil, err
	}

	if _, err := s.sessions.setQuestions(sessionID, questions); err != nil {
		return nil, err
	}
	log.WithField("generated", len(questions)).Info("questions stored")
	return questions, nil
}

func (s *QuestionService) generate(ctx context.Context, params gateway.PromptParams, req model.GenerateRequest, progress ProgressFunc) ([]model.Question, error) {
	msgs, err := gateway.BuildPrompt(ctx, params)
	if err != nil {
		return nil, err
	}

	raw, err := s.gateway.Complete(ctx, gateway.Request{Messages: msgs, Model: req.Model, APIKey: req.APIKey})
	if err != nil {
		return nil, err
	}

	progress(statusEvent("Parsing response..."))
	questions, err := gateway.ParseQuestions(raw)
	if err != nil {
		return nil, err
	}

	progress(statusEvent("Rendering diagrams..."))
	rng := s.newRand()
	for i := range questions {
		if err := s.Assemble(&questions[i], rng); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// params validates the request against the session and fills defaults.
func (s *QuestionService) params(session *model.Session, req *model.GenerateRequest) (gateway.PromptParams, error) {
	if len(session.Topics) == 0 {
		return gateway.PromptParams{}, invalid("Please select at least one topic.")
	}

	if req.Count == 0 {
		req.Count = catalog.DefaultCount
	}
	if req.Count < catalog.MinCount || req.Count > catalog.MaxCount {
		return gateway.PromptParams{}, invalid(fmt.Sprintf("Number of questions must be between %d and %d.", catalog.MinCount, catalog.MaxCount))
	}

	if req.Difficulty == "" {
		req.Difficulty = catalog.Mixed
	}
	if !catalog.IsDifficulty(req.Difficulty) {
		return gateway.PromptParams{}, invalid(fmt.Sprintf("Unknown difficulty %q.", req.Difficulty))
	}

	if req.Format == "" {
		req.Format = catalog.Mixed
	}
	if !catalog.IsFormat(req.Format) {
		return gateway.PromptParams{}, invalid(fmt.Sprintf("Unknown question format %q.", req.Format))
	}

	if req.Model == "" {
		req.Model = s.defModel
	}
	if !lo.Contains(s.Models(), req.Model) {
		return gateway.PromptParams{}, invalid(fmt.Sprintf("Model %q is not available. Choose one of: %s.", req.Model, strings.Join(s.Models(), ", ")))
	}

	return gateway.PromptParams{
		Level:      session.Level,
		Subject:    session.Subject,
		Topics:     session.Topics,
		Count:      req.Count,
		Difficulty: req.Difficulty,
		Format:     req.Format,
	}, nil
}

// Assemble renders a question's diagrams. Explicit descriptions are drawn
// first as Diagram 1..n; inline [DIAGRAM: ...] tags in the body continue the
// numbering and are replaced by [See Diagram k] references.
func (s *QuestionService) Assemble(q *model.Question, rng *rand.Rand) error {
	explicit := lo.Filter(q.DiagramDescriptions, func(d string, _ int) bool {
		return strings.TrimSpace(d) != ""
	})
	body, inline := diagram.ExtractDiagramTagsFrom(q.Question, len(explicit)+1)

	descriptions := append(explicit, inline...)
	diagrams := make([]*diagram.Diagram, 0, len(descriptions))
	for i, desc := range descriptions {
		d, err := s.renderer.Render(diagram.Request{Description: desc, Index: i + 1}, rng)
		if err != nil {
			return fmt.Errorf("render diagram %d: %w", i+1, err)
		}
		diagrams = append(diagrams, d)
	}

	q.Question = body
	q.DiagramDescriptions = descriptions
	q.Diagrams = diagrams
	return nil
}

func (s *QuestionService) Questions(sessionID string) ([]model.Question, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Questions, nil
}

// Diagram 按 1 起始的题号和图号查找已渲染的图
func (s *QuestionService) Diagram(sessionID string, question, index int) (*diagram.Diagram, error) {
	questions, err := s.Questions(sessionID)
	if err != nil {
		return nil, err
	}
	if question < 1 || question > len(questions) {
		return nil, ErrDiagramNotFound
	}
	diagrams := questions[question-1].Diagrams
	if index < 1 || index > len(diagrams) {
		return nil, ErrDiagramNotFound
	}
	return diagrams[index-1], nil
}

// Preview renders a single description outside any session.
func (s *QuestionService) Preview(req model.PreviewRequest) (*diagram.Diagram, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, invalid("Diagram description is required.")
	}
	if limit := s.renderer.MaxSide(); req.Width > limit || req.Height > limit {
		return nil, invalid(fmt.Sprintf("Diagram width and height must not exceed %d pixels.", limit))
	}
	return s.renderer.Render(diagram.Request{
		Description: req.Description,
		Index:       req.Index,
		Width:       req.Width,
		Height:      req.Height,
	}, s.newRand())
}

// newRand 固定种子时每次调用派生不同但可复现的序列
func (s *QuestionService) newRand() *rand.Rand {
	if s.seed == 0 {
		return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(s.seed), s.calls.Add(1)))
}

func statusEvent(msg string) model.StreamEvent {
	return model.StreamEvent{Type: "status", Message: msg, Timestamp: time.Now().Unix()}
}
