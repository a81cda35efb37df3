package gateway

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"examprep-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

// debugTransport logs outgoing LLM requests with credentials redacted.
type debugTransport struct {
	base     http.RoundTripper
	provider string
}

func newDebugTransport(base http.RoundTripper, provider string) *debugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &debugTransport{base: base, provider: provider}
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPost {
		t.logRequest(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		logger.WithFields(logrus.Fields{"provider": t.provider, "url": req.URL.String()}).
			Errorf("LLM request failed: %v", err)
		return nil, err
	}
	logger.WithFields(logrus.Fields{"provider": t.provider, "status": resp.StatusCode}).Debug("LLM response received")
	return resp, nil
}

func (t *debugTransport) logRequest(req *http.Request) {
	headers := make(map[string]string, len(req.Header))
	for name, values := range req.Header {
		if isSensitiveHeader(name) {
			headers[name] = "[REDACTED]"
			continue
		}
		headers[name] = strings.Join(values, ", ")
	}

	fields := logrus.Fields{
		"provider": t.provider,
		"method":   req.Method,
		"url":      req.URL.String(),
		"headers":  headers,
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Errorf("failed to read request body: %v", err)
			return
		}
		// 恢复请求体，以免影响实际请求
		req.Body = io.NopCloser(bytes.NewReader(body))
		fields["body"] = redactJSON(string(body))
		fields["body_size"] = len(body)
	}

	logger.WithFields(fields).Debug("LLM request")
}

var sensitiveField = regexp.MustCompile(`(?i)("(?:api_key|apikey|password|secret|token)"\s*:\s*)"[^"]*"`)

func redactJSON(body string) string {
	return sensitiveField.ReplaceAllString(body, `$1"[REDACTED]"`)
}

func isSensitiveHeader(name string) bool {
	for _, sensitive := range []string{"Authorization", "X-Api-Key", "X-Auth-Token", "Cookie", "Api-Key"} {
		if strings.EqualFold(name, sensitive) {
			return true
		}
	}
	return false
}
