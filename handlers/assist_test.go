package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/projectziio/ziio-ai/internal/llm/llmtest"
	"github.com/stretchr/testify/require"
)

func TestProofread_StreamsPlainText(t *testing.T) {
	r, gw := newTestRouter(t)
	gw.On("test/proofread", llmtest.Reply{Chunks: []string{`{"suggestions":`, `[]}`}})

	w := post(r, "/api/proofread", "Their going home.")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"suggestions":[]}`, w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	require.Equal(t, "test/proofread", w.Header().Get(ModelHeader))
	require.Equal(t, "Their going home.", gw.Requests()[0].Messages[1].Content)
}

func TestProofread_Errors(t *testing.T) {
	r, gw := newTestRouter(t)

	w := post(r, "/api/proofread", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	gw.On("test/proofread", llmtest.Reply{Status: http.StatusTooManyRequests, Message: "Rate limit exceeded"})
	gw.On("test/proofread-backup", llmtest.Reply{Status: http.StatusTooManyRequests, Message: "backup limited"})
	w = post(r, "/api/proofread", "text")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.JSONEq(t, `{"error":"Proofreading failed","details":"Rate limit exceeded"}`, w.Body.String())
}

func TestChat_StreamsFromBackup(t *testing.T) {
	r, gw := newTestRouter(t)
	gw.On("test/chat", llmtest.Reply{Status: http.StatusServiceUnavailable})
	gw.On("test/chat-backup", llmtest.Reply{Chunks: []string{"The brief ", "asks for 1500 words."}})

	w := post(r, "/api/chat", `{"messages":[{"role":"user","content":"How long?"}],"fileContent":"Word Count: 1500"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "The brief asks for 1500 words.", w.Body.String())
	require.Equal(t, "test/chat-backup", w.Header().Get(ModelHeader))
}

func TestChat_Validation(t *testing.T) {
	r, gw := newTestRouter(t)

	w := post(r, "/api/chat", `{"messages":[]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/api/chat", `{"messages":[{"role":"tool","content":"x"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, gw.Requests())
}

func TestArticle(t *testing.T) {
	r, gw := newTestRouter(t)
	gw.On("test/article", llmtest.Reply{Chunks: []string{"# Title\n", "Body"}})

	w := post(r, "/api/article", `{"topic":"Inflation"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "# Title\nBody", w.Body.String())

	w = post(r, "/api/article", `{"topic":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	gw.On("test/article", llmtest.Reply{Status: http.StatusInternalServerError})
	w = post(r, "/api/article", `{"topic":"Inflation"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Article generation failed", body["error"])
}

func TestAnswer_FallsBackToTemplate(t *testing.T) {
	r, gw := newTestRouter(t)
	gw.On("test/file-analysis", llmtest.Reply{Status: http.StatusUnauthorized})

	w := post(r, "/api/answers", `{"question":"Explain inflation","context":"Prices rise.","requirements":["causes"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var a struct {
		Answer string `json:"answer"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	require.Equal(t, "template", a.Source)
	require.Contains(t, a.Answer, "causes")

	w = post(r, "/api/answers", `{"question":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnswerDocument(t *testing.T) {
	r, gw := newTestRouter(t)
	gw.On("test/file-analysis", llmtest.Reply{Content: "answer one"}, llmtest.Reply{Content: "answer two"})

	w := post(r, "/api/answers/document", `{
		"questions":{"pageAnalysis":[{"pageNumber":1,"content":"Q1","keyPoints":["a"]},{"pageNumber":2,"content":"Q2"}]},
		"context":{"summary":{"overview":"reading"}}
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Answers []struct {
			PageNumber int    `json:"pageNumber"`
			Question   string `json:"question"`
			Answer     string `json:"answer"`
			Source     string `json:"source"`
		} `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Answers, 2)
	require.Equal(t, "Q1", out.Answers[0].Question)
	require.Equal(t, "answer one", out.Answers[0].Answer)
	require.Equal(t, 2, out.Answers[1].PageNumber)
	require.Equal(t, "model", out.Answers[1].Source)

	w = post(r, "/api/answers/document", `{"questions":{"pageAnalysis":[]}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
