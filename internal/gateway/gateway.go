// Package gateway sends generation prompts to the configured LLM provider
// and turns replies into question records.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/pkg/logger"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// Request is one completion call. Model and APIKey override the configured
// values for this call only.
type Request struct {
	Messages []*schema.Message
	Model    string
	APIKey   string
}

type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ModelFactory builds a chat model from LLM settings.
type ModelFactory func(ctx context.Context, cfg config.LLMConfig) (einoModel.BaseChatModel, error)

type LLMGateway struct {
	cfg     config.LLMConfig
	factory ModelFactory
	model   einoModel.BaseChatModel
}

func New(ctx context.Context, cfg config.LLMConfig) (*LLMGateway, error) {
	return NewWithFactory(ctx, cfg, NewChatModel)
}

func NewWithFactory(ctx context.Context, cfg config.LLMConfig, factory ModelFactory) (*LLMGateway, error) {
	chatModel, err := factory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"model":    cfg.Model,
		"timeout":  cfg.Timeout.String(),
	}).Info("LLM gateway ready")

	return &LLMGateway{cfg: cfg, factory: factory, model: chatModel}, nil
}

func (g *LLMGateway) DefaultModel() string {
	return g.cfg.Model
}

// Complete sends the messages and returns the reply text. Failures come back
// as ErrTimeout (wrapped) when the deadline passes, else as *RequestError.
// Nothing is retried.
func (g *LLMGateway) Complete(ctx context.Context, req Request) (string, error) {
	chatModel, cfg, err := g.modelFor(ctx, req)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	msg, err := chatModel.Generate(ctx, req.Messages,
		einoModel.WithModel(cfg.Model),
		einoModel.WithTemperature(cfg.Temperature),
		einoModel.WithTopP(cfg.TopP),
		einoModel.WithMaxTokens(cfg.MaxTokens),
	)
	entry := logger.WithFields(logrus.Fields{
		"provider": cfg.Provider,
		"model":    cfg.Model,
		"elapsed":  time.Since(start).String(),
	})
	if err != nil {
		if isTimeout(ctx, err) {
			entry.Warn("LLM request timed out")
			return "", fmt.Errorf("%w after %s", ErrTimeout, cfg.Timeout)
		}
		entry.Errorf("LLM request failed: %v", err)
		return "", &RequestError{Err: err}
	}

	entry.WithField("chars", len(msg.Content)).Info("LLM reply received")
	return msg.Content, nil
}

// modelFor 有覆盖参数时按需新建模型，否则复用默认模型
func (g *LLMGateway) modelFor(ctx context.Context, req Request) (einoModel.BaseChatModel, config.LLMConfig, error) {
	cfg := g.cfg
	if req.Model != "" {
		cfg.Model = req.Model
	}
	if req.APIKey == "" {
		return g.model, cfg, nil
	}
	cfg.APIKey = req.APIKey
	chatModel, err := g.factory(ctx, cfg)
	return chatModel, cfg, err
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
