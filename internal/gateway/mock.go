package gateway

import (
	"context"
	"errors"
	"sync"
)

// MockResponse is a canned reply for MockGateway.
type MockResponse struct {
	Text string
	Err  error
}

// MockGateway returns canned replies in FIFO order and records every call.
type MockGateway struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockGateway(responses ...MockResponse) *MockGateway {
	return &MockGateway{responses: responses}
}

func (m *MockGateway) Complete(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return "", &RequestError{Err: errors.New("mock gateway: no canned response")}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.Text, resp.Err
}
