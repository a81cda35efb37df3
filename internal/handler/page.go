package handler

import (
	"embed"
	"html/template"
	"net/http"

	"examprep-backend/internal/catalog"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	Levels       []string
	Difficulties []string
	Formats      []string
	Models       []string
	DefaultModel string
	MinCount     int
	MaxCount     int
	DefaultCount int
}

func (h *ExamHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Levels:       catalog.Levels(),
		Difficulties: catalog.Difficulties(),
		Formats:      catalog.FormatNames(),
		Models:       h.questions.Models(),
		DefaultModel: h.questions.DefaultModel(),
		MinCount:     catalog.MinCount,
		MaxCount:     catalog.MaxCount,
		DefaultCount: catalog.DefaultCount,
	})
}
