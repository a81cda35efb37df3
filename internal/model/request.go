package model

type CreateSessionRequest struct {
	Level   string `json:"level"`
	Subject string `json:"subject"`
}

// 更新侧边栏选择；学科变化时已选主题会被清空
type SelectionRequest struct {
	Level   string   `json:"level" binding:"required"`
	Subject string   `json:"subject" binding:"required"`
	Topics  []string `json:"topics"`
}

type GenerateRequest struct {
	Count      int    `json:"count"`
	Difficulty string `json:"difficulty"`
	Format     string `json:"format"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"` // 可选，覆盖配置中的 key
}

type PreviewRequest struct {
	Description string `json:"description" binding:"required"`
	Index       int    `json:"index"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}
