package storage

import (
	"examprep-backend/internal/model"
)

// Storage holds exam sessions: the level/subject/topic selection and the
// last generated question set with its rendered diagrams.
//
// Sessions go in and come out as deep copies. A caller that wants to change
// a stored selection or result list must read, modify and write back through
// UpdateSession; mutating a returned session has no effect on the store.
// Expired or evicted sessions behave exactly like missing ones and report
// ErrSessionNotFound.
type Storage interface {
	// CreateSession stores a new session. A nil session or empty ID is
	// ErrInvalidData, a duplicate ID is ErrSessionExists.
	CreateSession(session *model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	// UpdateSession replaces an existing session wholesale.
	UpdateSession(session *model.Session) error
	DeleteSession(sessionID string) error
	// ListSessions 返回仍然有效的会话，按创建时间排序
	ListSessions() ([]*model.Session, error)

	// 生命周期，服务启动时 Init，关闭时 Close
	Init() error
	Close() error
}
