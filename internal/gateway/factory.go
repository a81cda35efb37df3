package gateway

import (
	"context"
	"fmt"
	"net/http"

	"examprep-backend/internal/config"
	"examprep-backend/internal/utils"
	"examprep-backend/pkg/logger"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
)

// 各 provider 未配置 base_url 时使用的默认地址；openai 和 ark 用 SDK 自带的
var defaultBaseURL = map[string]string{
	"groq": "https://api.groq.com/openai/v1",
	"qwen": "https://dashscope.aliyuncs.com/compatible-mode/v1",
}

// NewChatModel builds the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (einoModel.BaseChatModel, error) {
	if cfg.APIKey == "" {
		logger.Warnf("no API key configured for provider %s", cfg.Provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL[cfg.Provider]
	}

	switch cfg.Provider {
	case "groq", "openai":
		return newOpenAIChatModel(openaiConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     baseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  newHTTPClient(cfg),
		}), nil
	case "ark":
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			CustomHeader: map[string]string{
				"X-Ark-Thinking-Mode": "disable",
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create ark model: %w", err)
		}
		return chatModel, nil
	case "qwen":
		maxTokens, temperature, topP := cfg.MaxTokens, cfg.Temperature, cfg.TopP
		chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			BaseURL:     baseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			TopP:        &topP,
			Timeout:     cfg.Timeout,
			HTTPClient:  newHTTPClient(cfg),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create qwen model: %w", err)
		}
		return chatModel, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

// newHTTPClient 在 debug_request 打开时包一层调试传输
func newHTTPClient(cfg config.LLMConfig) *http.Client {
	client := utils.NewHTTPClient(cfg.Timeout)
	if cfg.DebugRequest {
		client.Transport = newDebugTransport(client.Transport, cfg.Provider)
	}
	return client
}
