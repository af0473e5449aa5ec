package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/analysis/service"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/prompts"
	"github.com/projectziio/ziio-ai/pkg/logger"
)

// AnalyzeHandler serves the page, document and text analysis routes.
type AnalyzeHandler struct {
	analyzer *service.Analyzer
}

func NewAnalyzeHandler(a *service.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a}
}

// Register routes under /api
func (h *AnalyzeHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.AnalyzePage)
	rg.POST("/analyze/document", h.AnalyzeDocument)
	rg.POST("/analyze/text", h.AnalyzeText)
	rg.POST("/chat/context", h.ChatContext)
}

type analyzePageRequest struct {
	ImageURL   string `json:"imageUrl"`
	PageNumber int    `json:"pageNumber"`
	TotalPages int    `json:"totalPages"`
}

// AnalyzePage returns the model's assessment analysis of one page image.
func (h *AnalyzeHandler) AnalyzePage(c *gin.Context) {
	var req analyzePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.analyzer.AnalyzePage(c.Request.Context(), req.ImageURL, req.PageNumber, req.TotalPages)
	if err != nil {
		analysisFailed(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// AnalyzeDocument runs the per-page analyses plus the whole-document synthesis.
func (h *AnalyzeHandler) AnalyzeDocument(c *gin.Context) {
	var req struct {
		ImageURLs []string `json:"imageUrls"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	doc, err := h.analyzer.AnalyzeDocument(c.Request.Context(), req.ImageURLs)
	if err != nil {
		analysisFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *AnalyzeHandler) AnalyzeText(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
		Mode string `json:"mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = "deep"
	}
	if !prompts.ValidTextMode(req.Mode) {
		badRequest(c, "Invalid analysis mode")
		return
	}
	out, err := h.analyzer.AnalyzeText(c.Request.Context(), req.Text, req.Mode)
	if err != nil {
		analysisFailed(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// ChatContext renders saved analyses into the chat route's fileContent and
// systemMessage fields.
func (h *AnalyzeHandler) ChatContext(c *gin.Context) {
	var req struct {
		ActiveDocument string                     `json:"activeDocument"`
		Context        *analysis.DocumentAnalysis `json:"context"`
		Questions      *analysis.DocumentAnalysis `json:"questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, service.BuildChatContext(req.ActiveDocument, req.Context, req.Questions))
}

func analysisFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoImage):
		badRequest(c, "No image URL provided")
		return
	case errors.Is(err, service.ErrNoImages):
		badRequest(c, "No image URLs provided")
		return
	case errors.Is(err, service.ErrNoText):
		badRequest(c, "No text provided")
		return
	case errors.Is(err, service.ErrUnparseable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse analysis results"})
		return
	}
	logger.WithFields(map[string]interface{}{"request_id": c.GetString("request_id")}).Errorf("analysis error: %v", err)
	msg := "Failed to analyze document"
	var ae *llm.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}
	c.JSON(gatewayStatus(err), gin.H{"error": msg})
}
