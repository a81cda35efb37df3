package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Diagram DiagramConfig `mapstructure:"diagram"`
	Export  ExportConfig  `mapstructure:"export"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// LLMConfig 描述题目生成所用的模型服务
type LLMConfig struct {
	Provider     string        `mapstructure:"provider"` // groq | openai | ark | qwen
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	Models       []string      `mapstructure:"models"`
	Temperature  float32       `mapstructure:"temperature"`
	TopP         float32       `mapstructure:"top_p"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DebugRequest bool          `mapstructure:"debug_request"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionConfig struct {
	TTL         time.Duration `mapstructure:"ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// DiagramConfig 控制示意图渲染；Seed 为 0 时按时间取随机种子
type DiagramConfig struct {
	Width    int    `mapstructure:"width"`
	Height   int    `mapstructure:"height"`
	MaxSide  int    `mapstructure:"max_side"`
	FontPath string `mapstructure:"font_path"`
	Seed     int64  `mapstructure:"seed"`
}

type ExportConfig struct {
	PageSize    string  `mapstructure:"page_size"`
	ImageWidth  float64 `mapstructure:"image_width"`
	ImageHeight float64 `mapstructure:"image_height"`
}

// 各 provider 默认读取的 API Key 环境变量
var providerKeyEnv = map[string][]string{
	"groq":   {"GROQ_API_KEY"},
	"openai": {"OPENAI_API_KEY"},
	"ark":    {"ARK_API_KEY", "DOUBAO_API_KEY"},
	"qwen":   {"DASHSCOPE_API_KEY", "QWEN_API_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 3*time.Minute)
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("llm.provider", "groq")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "llama3-70b-8192")
	v.SetDefault("llm.models", []string{"llama3-8b-8192", "llama3-70b-8192", "mixtral-8x7b-32768", "gemma-7b-it"})
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 1.0)
	v.SetDefault("llm.max_tokens", 4000)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.debug_request", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Disposition"})
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.max_sessions", 1000)

	v.SetDefault("diagram.width", 600)
	v.SetDefault("diagram.height", 400)
	v.SetDefault("diagram.max_side", 2000)
	v.SetDefault("diagram.font_path", "")
	v.SetDefault("diagram.seed", 0)

	v.SetDefault("export.page_size", "Letter")
	v.SetDefault("export.image_width", 300.0)
	v.SetDefault("export.image_height", 200.0)
}

var cfg *Config

// Load 读取配置文件；文件不存在时只使用默认值和环境变量
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("EXAMPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil || !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 配置文件优先，如果配置文件中没有设置，则使用环境变量
	if loaded.LLM.APIKey == "" {
		for _, name := range providerKeyEnv[loaded.LLM.Provider] {
			if apiKey := os.Getenv(name); apiKey != "" {
				loaded.LLM.APIKey = apiKey
				break
			}
		}
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := providerKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.Diagram.Width <= 0 || c.Diagram.Height <= 0 {
		return fmt.Errorf("diagram size must be positive, got %dx%d", c.Diagram.Width, c.Diagram.Height)
	}
	if c.Diagram.MaxSide > 0 && (c.Diagram.Width > c.Diagram.MaxSide || c.Diagram.Height > c.Diagram.MaxSide) {
		return fmt.Errorf("diagram size %dx%d exceeds max_side %d", c.Diagram.Width, c.Diagram.Height, c.Diagram.MaxSide)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.Export.ImageWidth <= 0 || c.Export.ImageHeight <= 0 {
		return fmt.Errorf("export image size must be positive")
	}
	return nil
}

func Get() *Config {
	return cfg
}
