package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/projectziio/ziio-ai/internal/analysis/service"
	"github.com/projectziio/ziio-ai/internal/assist"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/llm/llmtest"
)

var testModels = llm.Models{
	Vision:          "test/vision",
	FileAnalysis:    "test/file-analysis",
	TextBackup:      "test/text-backup",
	Chat:            "test/chat",
	ChatBackup:      "test/chat-backup",
	Proofread:       "test/proofread",
	ProofreadBackup: "test/proofread-backup",
	Article:         "test/article",
	ArticleBackup:   "test/article-backup",
}

// newTestRouter mounts the analysis and assist routes against a scripted gateway.
func newTestRouter(t *testing.T) (*gin.Engine, *llmtest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gw := llmtest.New(t)
	r := gin.New()
	api := r.Group("/api")
	NewAnalyzeHandler(service.NewAnalyzer(gw.Client(), testModels, service.Options{PageConcurrency: 1})).Register(api)
	NewAssistHandler(assist.New(gw.Client(), testModels), 1).Register(api)
	return r, gw
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}
