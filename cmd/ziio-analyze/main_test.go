package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/projectziio/ziio-ai/internal/llm/llmtest"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, gw *llmtest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("MODEL_FILE_ANALYSIS", "test/file-analysis")
	t.Setenv("MODEL_VISION", "test/vision")
	t.Setenv("MODEL_PROOFREAD", "test/proofread")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--base-url", gw.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTextCommand_ReadsStdin(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("test/file-analysis", llmtest.Reply{Content: `{"mainArguments":["supply"]}`})

	out, err := run(t, gw, "Markets clear.", "text", "--mode", "quick")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, []any{"supply"}, got["mainArguments"])
	require.Equal(t, "Markets clear.", gw.Requests()[0].Messages[1].Content)
}

func TestPageCommand(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("test/vision", llmtest.Reply{Content: `{"summary":{"overview":"brief"}}`})

	out, err := run(t, gw, "", "page", "https://img/1.png", "--page", "2", "--total", "3")
	require.NoError(t, err)
	require.Contains(t, out, `"overview": "brief"`)
	require.Contains(t, gw.Requests()[0].Messages[0].Content, "(page 2 of 3)")
}

func TestProofreadCommand_Streams(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("test/proofread", llmtest.Reply{Chunks: []string{"{", "}"}})

	out, err := run(t, gw, "Their going.", "proofread")
	require.NoError(t, err)
	require.Equal(t, "{}\n", out)
}

func TestPageCommand_RequiresURL(t *testing.T) {
	gw := llmtest.New(t)
	_, err := run(t, gw, "", "page")
	require.Error(t, err)
}
