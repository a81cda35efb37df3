package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/internal/diagram"
	"examprep-backend/internal/export"
	"examprep-backend/internal/gateway"
	"examprep-backend/internal/model"
	"examprep-backend/internal/service"
	"examprep-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reply = "```json\n" + `[
  {
    "question": "Study [DIAGRAM: a right-angled triangle] and find the hypotenuse.",
    "topic": "Geometry",
    "difficulty": "Easy",
    "mark_scheme": "Pythagoras [1]. Answer 5 cm [1].",
    "diagram_descriptions": ["graph of y = x^2"]
  }
]` + "\n```"

func newTestRouter(t *testing.T, responses ...gateway.MockResponse) *gin.Engine {
	t.Helper()
	require.NoError(t, logger.InitWithOutput("error", "text", io.Discard))

	cfg := &config.Config{
		LLM: config.LLMConfig{
			Model:  "llama3-70b-8192",
			Models: []string{"llama3-8b-8192"},
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"}},
		Session: config.SessionConfig{TTL: time.Hour, MaxSessions: 10},
		Diagram: config.DiagramConfig{Seed: 1},
		Export:  config.ExportConfig{PageSize: "Letter", ImageWidth: 300, ImageHeight: 200},
	}
	renderer, err := diagram.NewRenderer(diagram.Options{})
	require.NoError(t, err)

	sessions := service.NewSessionService(cfg)
	questions := service.NewQuestionService(cfg, sessions, gateway.NewMockGateway(responses...), renderer)
	return NewRouter(cfg, NewExamHandler(sessions, questions, export.NewExporter(cfg.Export)))
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// newSelectedSession 创建会话并选好主题
func newSelectedSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/session", model.CreateSessionRequest{Level: "IGCSE", Subject: "Mathematics"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec)["session_id"].(string)

	rec = do(t, r, http.MethodPut, "/api/session/"+id+"/selection", model.SelectionRequest{
		Level: "IGCSE", Subject: "Mathematics", Topics: []string{"Geometry", "Algebra"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return id
}

func TestRouter_HealthAndPage(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<option>IGCSE</option>")
	assert.Contains(t, rec.Body.String(), "<option selected>llama3-70b-8192</option>")
}

func TestRouter_Catalog(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cat model.CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Equal(t, []string{"IGCSE", "A-Level"}, cat.Levels)
	assert.Contains(t, cat.Subjects["A-Level"], "Further Mathematics")
	assert.Equal(t, "llama3-70b-8192", cat.DefaultModel)

	rec = do(t, r, http.MethodGet, "/api/catalog/topics?level=IGCSE&subject=History", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"General Curriculum"}, decode(t, rec)["topics"])

	rec = do(t, r, http.MethodGet, "/api/catalog/topics?level=GCSE&subject=History", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GenerateDiagramAndExport(t *testing.T) {
	r := newTestRouter(t, gateway.MockResponse{Text: reply})
	id := newSelectedSession(t, r)

	rec := do(t, r, http.MethodPost, "/api/session/"+id+"/generate", model.GenerateRequest{Count: 1, Difficulty: "Easy"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Questions []model.QuestionView `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Questions, 1)
	q := body.Questions[0]
	assert.Equal(t, "Study [See Diagram 2] and find the hypotenuse.", q.Question)
	require.Len(t, q.Diagrams, 2)
	assert.Equal(t, "plot", q.Diagrams[0].Strategy)
	assert.Equal(t, "geometry", q.Diagrams[1].Strategy)
	assert.Equal(t, "/api/session/"+id+"/questions/1/diagrams/2", q.Diagrams[1].URL)

	rec = do(t, r, http.MethodGet, q.Diagrams[1].URL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())

	rec = do(t, r, http.MethodGet, "/api/session/"+id+"/questions/1/diagrams/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, r, http.MethodGet, "/api/session/"+id+"/questions/x/diagrams/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/session/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "IGCSE_Mathematics_questions.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(t, r, http.MethodPost, "/api/session/"+id+"/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["question_count"])

	rec = do(t, r, http.MethodGet, "/api/session/"+id+"/export", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		resp   gateway.MockResponse
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "parse failure carries raw text",
			resp:   gateway.MockResponse{Text: "no json here"},
			status: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "no json here", body["raw"])
			},
		},
		{
			name:   "provider failure",
			resp:   gateway.MockResponse{Err: &gateway.RequestError{Err: errors.New("status 401")}},
			status: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Error generating questions: status 401", body["error"])
			},
		},
		{
			name:   "timeout",
			resp:   gateway.MockResponse{Err: gateway.ErrTimeout},
			status: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.resp)
			id := newSelectedSession(t, r)

			rec := do(t, r, http.MethodPost, "/api/session/"+id+"/generate", nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, decode(t, rec))
			}

			rec = do(t, r, http.MethodGet, "/api/session/"+id+"/questions", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, decode(t, rec)["questions"])
		})
	}
}

func TestRouter_Validation(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec)["session_id"].(string)

	rec = do(t, r, http.MethodPost, "/api/session/"+id+"/generate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please select at least one topic.", decode(t, rec)["error"])

	id = newSelectedSession(t, r)
	rec = do(t, r, http.MethodPost, "/api/session/"+id+"/generate", model.GenerateRequest{Count: 20})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/api/session/"+id+"/selection", map[string]any{"level": "IGCSE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/session/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodDelete, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, r, http.MethodGet, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_StreamGenerate(t *testing.T) {
	r := newTestRouter(t, gateway.MockResponse{Text: reply})
	id := newSelectedSession(t, r)

	rec := do(t, r, http.MethodPost, "/api/session/"+id+"/generate/stream", model.GenerateRequest{Count: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Contains(t, out, "event: status\n")
	assert.Contains(t, out, "event: question\n")
	assert.Contains(t, out, "event: done\n")
	assert.True(t, strings.HasSuffix(out, "data: [DONE]\n\n"))
	assert.Less(t, strings.Index(out, "event: question"), strings.Index(out, "event: done"))
}

func TestRouter_StreamGenerateError(t *testing.T) {
	r := newTestRouter(t, gateway.MockResponse{Text: "garbage"})
	id := newSelectedSession(t, r)

	rec := do(t, r, http.MethodPost, "/api/session/"+id+"/generate/stream", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "event: error\n")
	assert.Contains(t, out, `"raw":"garbage"`)
	assert.NotContains(t, out, "event: done")
}

func TestRouter_PreviewDiagram(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/diagram/preview", model.PreviewRequest{Description: "water molecule", Width: 300, Height: 200})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chemistry", rec.Header().Get("X-Diagram-Strategy"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())

	rec = do(t, r, http.MethodPost, "/api/diagram/preview", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/diagram/preview", model.PreviewRequest{Description: "a circle", Width: 50000, Height: 50000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
