package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"examprep-backend/internal/catalog"
	"examprep-backend/internal/export"
	"examprep-backend/internal/model"
	"examprep-backend/internal/service"
	"examprep-backend/internal/utils"
	"examprep-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const heartbeatInterval = 30 * time.Second

type ExamHandler struct {
	sessions  *service.SessionService
	questions *service.QuestionService
	exporter  *export.Exporter
}

func NewExamHandler(sessions *service.SessionService, questions *service.QuestionService, exporter *export.Exporter) *ExamHandler {
	return &ExamHandler{
		sessions:  sessions,
		questions: questions,
		exporter:  exporter,
	}
}

func (h *ExamHandler) Catalog(c *gin.Context) {
	subjects := make(map[string][]string, len(catalog.Levels()))
	for _, level := range catalog.Levels() {
		subjects[level] = catalog.Subjects(level)
	}

	c.JSON(http.StatusOK, model.CatalogResponse{
		Levels:       catalog.Levels(),
		Subjects:     subjects,
		Formats:      catalog.Formats(),
		Difficulties: catalog.Difficulties(),
		Models:       h.questions.Models(),
		DefaultModel: h.questions.DefaultModel(),
	})
}

func (h *ExamHandler) Topics(c *gin.Context) {
	level, subject := c.Query("level"), c.Query("subject")
	if !catalog.IsSubject(level, subject) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown level/subject %q/%q", level, subject)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"level":   level,
		"subject": subject,
		"topics":  catalog.Topics(level, subject),
	})
}

func (h *ExamHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	// 允许空请求体，使用默认学段和学科
	_ = c.ShouldBindJSON(&req)

	session, err := h.sessions.CreateSession(req.Level, req.Subject)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSessionResponse(session))
}

func (h *ExamHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSessionResponse(session))
}

func (h *ExamHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListSessions()
	if err != nil {
		abortWithError(c, err)
		return
	}
	list := make([]model.SessionResponse, len(sessions))
	for i, s := range sessions {
		list[i] = model.NewSessionResponse(s)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

func (h *ExamHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.DeleteSession(c.Param("session_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *ExamHandler) UpdateSelection(c *gin.Context) {
	var req model.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.UpdateSelection(c.Param("session_id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSessionResponse(session))
}

func (h *ExamHandler) Generate(c *gin.Context) {
	req, ok := bindGenerate(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	questions, err := h.questions.Generate(c.Request.Context(), sessionID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"questions":  model.NewQuestionViews(sessionID, questions),
	})
}

// StreamGenerate runs a generation and reports progress over SSE: status
// events while working, one question event per result, then done or error.
func (h *ExamHandler) StreamGenerate(c *gin.Context) {
	req, ok := bindGenerate(c)
	if !ok {
		return
	}
	sessionID := c.Param("session_id")
	sseWriter := utils.NewSSEWriter(c.Writer)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	type result struct {
		questions []model.Question
		err       error
	}
	events := make(chan model.StreamEvent, 8)
	done := make(chan result, 1)

	go func() {
		questions, err := h.questions.GenerateWithProgress(ctx, sessionID, req, func(e model.StreamEvent) {
			select {
			case events <- e:
			case <-ctx.Done():
			}
		})
		done <- result{questions, err}
	}()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case e := <-events:
			if err := sseWriter.WriteJSON(e.Type, e); err != nil {
				logger.Warnf("Failed to write SSE: %v", err)
				return
			}

		case <-heartbeat.C:
			if err := sseWriter.WriteJSON("heartbeat", model.StreamEvent{Type: "heartbeat", Timestamp: time.Now().Unix()}); err != nil {
				logger.Warnf("heartbeat failed: %v", err)
				return
			}

		case r := <-done:
			h.finishStream(sseWriter, sessionID, events, r.questions, r.err)
			return

		case <-ctx.Done():
			logger.WithFields(logrus.Fields{"session_id": sessionID}).Info("client went away during generation")
			return
		}
	}
}

func (h *ExamHandler) finishStream(w *utils.SSEWriter, sessionID string, pending <-chan model.StreamEvent, questions []model.Question, err error) {
	// 先把尚未发送的进度事件写完
	for len(pending) > 0 {
		e := <-pending
		_ = w.WriteJSON(e.Type, e)
	}

	now := time.Now().Unix()
	if err != nil {
		status, body := errorStatus(err)
		logger.WithFields(logrus.Fields{"session_id": sessionID, "status": status}).Warnf("stream generation failed: %v", err)
		msg, _ := body["error"].(string)
		raw, _ := body["raw"].(string)
		_ = w.WriteJSON("error", model.StreamEvent{Type: "error", Message: msg, Raw: raw, Timestamp: now})
		_ = w.Close()
		return
	}

	views := model.NewQuestionViews(sessionID, questions)
	for i := range views {
		if err := w.WriteJSON("question", model.StreamEvent{Type: "question", Question: &views[i], Total: len(views), Timestamp: now}); err != nil {
			logger.Warnf("Failed to write SSE: %v", err)
			return
		}
	}
	_ = w.WriteJSON("done", model.StreamEvent{Type: "done", Message: fmt.Sprintf("Generated %d questions", len(views)), Total: len(views), Timestamp: now})
	_ = w.Close()
}

func (h *ExamHandler) ClearQuestions(c *gin.Context) {
	session, err := h.sessions.ClearQuestions(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSessionResponse(session))
}

func (h *ExamHandler) GetQuestions(c *gin.Context) {
	sessionID := c.Param("session_id")
	questions, err := h.questions.Questions(sessionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"questions":  model.NewQuestionViews(sessionID, questions),
	})
}

func (h *ExamHandler) GetDiagram(c *gin.Context) {
	q, errQ := strconv.Atoi(c.Param("question"))
	d, errD := strconv.Atoi(c.Param("diagram"))
	if errQ != nil || errD != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and diagram must be numbers"})
		return
	}

	diagram, err := h.questions.Diagram(c.Param("session_id"), q, d)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", diagram.PNG)
}

func (h *ExamHandler) Export(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("session_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(session.Questions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No questions to export. Generate questions first."})
		return
	}

	pdf, err := h.exporter.Export(session.Questions)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(session.Level, session.Subject)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *ExamHandler) PreviewDiagram(c *gin.Context) {
	var req model.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	diagram, err := h.questions.Preview(req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("X-Diagram-Strategy", diagram.Strategy.String())
	c.Header("X-Diagram-Title", diagram.Title)
	c.Data(http.StatusOK, "image/png", diagram.PNG)
}

// bindGenerate 允许空请求体，全部使用默认值
func bindGenerate(c *gin.Context) (model.GenerateRequest, bool) {
	var req model.GenerateRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}
