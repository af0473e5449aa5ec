package service

import (
	"strings"
	"testing"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/stretchr/testify/require"
)

func sampleDoc(kind string) *analysis.DocumentAnalysis {
	wc := 2000
	return &analysis.DocumentAnalysis{
		DocumentContext:  analysis.DocumentContext{Type: kind, Subject: "History", Level: "A-level", WordCount: &wc, KeyTopics: analysis.StringList{"war"}},
		ContentBreakdown: analysis.ContentBreakdown{MainPoints: analysis.StringList{"cause"}, Definitions: []analysis.Definition{{Term: "Treaty", Definition: "agreement"}}, References: analysis.StringList{"Taylor 1961"}},
		WritingGuide:     analysis.WritingGuide{SuggestedPoints: analysis.StringList{"compare sources"}},
		Summary:          analysis.Summary{Overview: kind + " overview", KeyPoints: analysis.StringList{"kp"}},
		PageAnalysis:     []analysis.PageDetail{{PageNumber: 1, Content: "first page", KeyPoints: analysis.StringList{"pk"}, UsefulContent: analysis.StringList{"quote"}}},
	}
}

func TestBuildChatContext_QuestionsCombinesBoth(t *testing.T) {
	cc := BuildChatContext("questions", sampleDoc("Reading"), sampleDoc("Brief"))
	require.True(t, strings.HasPrefix(cc.SystemMessage, "You are an AI assistant helping with assignment questions."))
	require.True(t, strings.HasPrefix(cc.FileContent, "Context Document Analysis:\nType: Reading\n"))
	require.Contains(t, cc.FileContent, "Word Count: 2000\n")
	require.Contains(t, cc.FileContent, "Context Key Definitions:\n- Treaty: agreement\n")
	require.Contains(t, cc.FileContent, "Questions Overview:\nBrief overview\n")
	require.Contains(t, cc.FileContent, "Page 1:\nContent: first page\nKey Points:\n- pk\nUseful Content:\n- quote\n")
	require.Contains(t, cc.FileContent, "Writing Guide from Context:\n- compare sources")
}

func TestBuildChatContext_SingleDocument(t *testing.T) {
	cc := BuildChatContext("context", sampleDoc("Reading"), nil)
	require.True(t, strings.HasPrefix(cc.SystemMessage, "You are an AI assistant helping analyze a document."))
	require.True(t, strings.HasPrefix(cc.FileContent, "Document Context:\n- Type: Reading\n"))
	require.Contains(t, cc.FileContent, "- Word Count: 2000\n")
	require.Contains(t, cc.FileContent, "\nPage-by-Page Analysis:\n")

	// questions view with only the questions analysis renders it alone
	cc = BuildChatContext("questions", nil, sampleDoc("Brief"))
	require.Contains(t, cc.FileContent, "- Type: Brief")
}

func TestBuildChatContext_NoAnalysis(t *testing.T) {
	cc := BuildChatContext("questions", sampleDoc("Reading"), nil)
	require.Equal(t, "No analysis available.", cc.FileContent)
}
