package storage

import "errors"

var (
	// ErrSessionNotFound covers unknown, deleted, expired and evicted
	// sessions alike. Handlers map it to 404.
	ErrSessionNotFound = errors.New("exam session not found")
	ErrSessionExists   = errors.New("exam session id already in use")
	// ErrInvalidData 会话为空或缺少 ID
	ErrInvalidData = errors.New("exam session is missing or has no id")
)
