package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/answerpdf"
	"github.com/projectziio/ziio-ai/internal/assist"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

const (
	maxTextBytes = 1 << 20
	maxPDFBytes  = 32 << 20
)

// AssistHandler serves proofreading, chat, article and answer routes.
type AssistHandler struct {
	svc         *assist.Service
	concurrency int
}

func NewAssistHandler(svc *assist.Service, answerConcurrency int) *AssistHandler {
	return &AssistHandler{svc: svc, concurrency: answerConcurrency}
}

// Register routes under /api
func (h *AssistHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/proofread", h.Proofread)
	rg.POST("/chat", h.Chat)
	rg.POST("/article", h.Article)
	rg.POST("/answers", h.Answer)
	rg.POST("/answers/document", h.AnswerDocument)
	rg.POST("/answers/pdf", h.AnswerPDF)
}

// Proofread takes the raw request body as the text to review.
func (h *AssistHandler) Proofread(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxTextBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Proofreading failed", "details": "text too large"})
		return
	}
	s, err := h.svc.Proofread(c.Request.Context(), string(body))
	if err != nil {
		if errors.Is(err, assist.ErrNoText) {
			badRequest(c, "No text provided")
			return
		}
		featureFailed(c, "Proofreading", err)
		return
	}
	writeStream(c, s)
}

func (h *AssistHandler) Chat(c *gin.Context) {
	var in assist.ChatInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	s, err := h.svc.Chat(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, assist.ErrNoMessages) || errors.Is(err, assist.ErrBadRole) {
			badRequest(c, err.Error())
			return
		}
		featureFailed(c, "Chat", err)
		return
	}
	writeStream(c, s)
}

func (h *AssistHandler) Article(c *gin.Context) {
	var in assist.ArticleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	s, err := h.svc.Article(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, assist.ErrNoTopic) {
			badRequest(c, err.Error())
			return
		}
		featureFailed(c, "Article generation", err)
		return
	}
	writeStream(c, s)
}

func (h *AssistHandler) Answer(c *gin.Context) {
	var in assist.AnswerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	a, err := h.svc.Answer(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, assist.ErrNoQuestion) {
			badRequest(c, err.Error())
			return
		}
		featureFailed(c, "Answer generation", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// AnswerDocument drafts one answer per page of a questions analysis.
func (h *AssistHandler) AnswerDocument(c *gin.Context) {
	var req struct {
		Questions          *analysis.DocumentAnalysis `json:"questions"`
		Context            *analysis.DocumentAnalysis `json:"context"`
		CustomInstructions string                     `json:"customInstructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	answers, err := h.svc.AnswerDocument(c.Request.Context(), req.Questions, req.Context, req.CustomInstructions, h.concurrency)
	if err != nil {
		if errors.Is(err, assist.ErrNoQuestion) {
			badRequest(c, "questions analysis with at least one page is required")
			return
		}
		featureFailed(c, "Answer generation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// AnswerPDF drafts answers for a questions analysis and returns the uploaded
// questions PDF with one answer page appended per question. The multipart
// form carries "file" (the PDF), "questions" and optionally "context" (both
// document analyses as JSON) and "customInstructions".
func (h *AssistHandler) AnswerPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPDFBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer f.Close()
	if _, err := answerpdf.PageCount(f); err != nil {
		badRequest(c, "file is not a readable PDF")
		return
	}

	var questions, reading *analysis.DocumentAnalysis
	if err := formJSON(c, "questions", &questions); err != nil {
		badRequest(c, "questions: "+err.Error())
		return
	}
	if err := formJSON(c, "context", &reading); err != nil {
		badRequest(c, "context: "+err.Error())
		return
	}

	answers, err := h.svc.AnswerDocument(c.Request.Context(), questions, reading, c.PostForm("customInstructions"), h.concurrency)
	if err != nil {
		if errors.Is(err, assist.ErrNoQuestion) {
			badRequest(c, "questions analysis with at least one page is required")
			return
		}
		featureFailed(c, "Answer generation", err)
		return
	}

	sections := make([]answerpdf.Section, 0, len(answers))
	for _, a := range answers {
		sections = append(sections, answerpdf.Section{PageNumber: a.PageNumber, Question: a.Question, Answer: a.Answer.Answer})
	}
	var out bytes.Buffer
	if err := answerpdf.Append(&out, f, sections); err != nil {
		logger.Errorf("answers pdf %q: %v", fh.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build answered PDF"})
		return
	}
	name := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)) + "-answered.pdf"
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`"`)
	c.Data(http.StatusOK, "application/pdf", out.Bytes())
}

// formJSON decodes an optional JSON form field; v is left untouched when the
// field is absent or blank.
func formJSON(c *gin.Context, field string, v any) error {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}
