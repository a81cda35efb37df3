package service

import (
	"fmt"
	"time"

	"examprep-backend/internal/catalog"
	"examprep-backend/internal/config"
	"examprep-backend/internal/model"
	"examprep-backend/internal/storage"
	"examprep-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type SessionService struct {
	storage storage.Storage
}

func NewSessionService(cfg *config.Config) *SessionService {
	store := storage.NewMemoryStorage(cfg.Session.TTL, cfg.Session.MaxSessions)
	if err := store.Init(); err != nil {
		logger.Errorf("Failed to initialize storage: %v", err)
	}
	return &SessionService{storage: store}
}

func NewSessionServiceWithStorage(store storage.Storage) *SessionService {
	return &SessionService{storage: store}
}

// CreateSession starts a session on the given level and subject, falling
// back to the catalog defaults when either is empty.
func (s *SessionService) CreateSession(level, subject string) (*model.Session, error) {
	if level == "" {
		level = catalog.DefaultLevel
	}
	if subject == "" {
		subject = catalog.DefaultSubject
	}
	if err := validateSubject(level, subject); err != nil {
		return nil, err
	}

	now := time.Now()
	session := &model.Session{
		ID:        uuid.NewString(),
		Level:     level,
		Subject:   subject,
		Topics:    []string{},
		Questions: []model.Question{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.WithFields(logrus.Fields{"session_id": session.ID, "level": level, "subject": subject}).Info("session created")
	return session, nil
}

func (s *SessionService) GetSession(sessionID string) (*model.Session, error) {
	return s.storage.GetSession(sessionID)
}

func (s *SessionService) DeleteSession(sessionID string) error {
	return s.storage.DeleteSession(sessionID)
}

func (s *SessionService) ListSessions() ([]*model.Session, error) {
	return s.storage.ListSessions()
}

// UpdateSelection changes level, subject and topics. Moving to another
// level/subject drops the previously selected topics; a nil topic list keeps
// the current ones when the subject is unchanged. Unknown topics are
// ignored.
func (s *SessionService) UpdateSelection(sessionID string, req model.SelectionRequest) (*model.Session, error) {
	if err := validateSubject(req.Level, req.Subject); err != nil {
		return nil, err
	}

	session, err := s.storage.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	changed := catalog.Key(req.Level, req.Subject) != session.SubjectKey()
	session.Level, session.Subject = req.Level, req.Subject
	switch {
	case req.Topics != nil:
		session.Topics = catalog.FilterTopics(req.Level, req.Subject, req.Topics)
	case changed:
		session.Topics = []string{}
	}
	session.UpdatedAt = time.Now()

	if err := s.storage.UpdateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ClearQuestions 清空已生成的题目，保留选择
func (s *SessionService) ClearQuestions(sessionID string) (*model.Session, error) {
	return s.setQuestions(sessionID, []model.Question{})
}

func (s *SessionService) setQuestions(sessionID string, questions []model.Question) (*model.Session, error) {
	session, err := s.storage.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.Questions = questions
	session.UpdatedAt = time.Now()
	if err := s.storage.UpdateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func validateSubject(level, subject string) error {
	if !catalog.IsLevel(level) {
		return invalid(fmt.Sprintf("Unknown level %q.", level))
	}
	if !catalog.IsSubject(level, subject) {
		return invalid(fmt.Sprintf("Subject %q is not offered at %s.", subject, level))
	}
	return nil
}
