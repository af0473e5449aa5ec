package service

import (
	"fmt"
	"strings"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/prompts"
)

// ChatContext is the pair a client sends to the chat route as fileContent
// and systemMessage.
type ChatContext struct {
	FileContent   string `json:"fileContent"`
	SystemMessage string `json:"systemMessage"`
}

// BuildChatContext renders analyses for chat. With activeDocument
// "questions" and both analyses present the context and questions documents
// are combined; otherwise the active document alone is rendered.
func BuildChatContext(activeDocument string, context, questions *analysis.DocumentAnalysis) ChatContext {
	out := ChatContext{SystemMessage: prompts.ChatRole(activeDocument)}
	active := context
	if activeDocument == prompts.ActiveQuestions {
		active = questions
	}
	switch {
	case activeDocument == prompts.ActiveQuestions && context != nil && questions != nil:
		out.FileContent = combined(context, questions)
	case active != nil:
		out.FileContent = single(active)
	default:
		out.FileContent = "No analysis available."
	}
	return out
}

func combined(ctx, q *analysis.DocumentAnalysis) string {
	var b strings.Builder
	b.WriteString("Context Document Analysis:\n")
	fmt.Fprintf(&b, "Type: %s\nSubject: %s\nLevel: %s\n", ctx.DocumentContext.Type, ctx.DocumentContext.Subject, ctx.DocumentContext.Level)
	if wc := ctx.DocumentContext.WordCount; wc != nil && *wc > 0 {
		fmt.Fprintf(&b, "Word Count: %d\n", *wc)
	}
	section(&b, "Context Key Topics", ctx.DocumentContext.KeyTopics)
	section(&b, "Context Main Points", ctx.ContentBreakdown.MainPoints)
	section(&b, "Context Key Definitions", defStrings(ctx.ContentBreakdown.Definitions))

	b.WriteString("\nQuestions Document Analysis:\n")
	fmt.Fprintf(&b, "Type: %s\nSubject: %s\nLevel: %s\n", q.DocumentContext.Type, q.DocumentContext.Subject, q.DocumentContext.Level)
	fmt.Fprintf(&b, "\nQuestions Overview:\n%s\n", q.Summary.Overview)
	section(&b, "Questions Key Points", q.Summary.KeyPoints)
	b.WriteString("\nQuestions Page-by-Page Analysis:\n")
	pages(&b, q.PageAnalysis)

	section(&b, "Context Document References", ctx.ContentBreakdown.References)
	section(&b, "Writing Guide from Context", ctx.WritingGuide.SuggestedPoints)
	return strings.TrimSpace(b.String())
}

func single(d *analysis.DocumentAnalysis) string {
	var b strings.Builder
	b.WriteString("Document Context:\n")
	fmt.Fprintf(&b, "- Type: %s\n- Subject: %s\n- Level: %s\n", d.DocumentContext.Type, d.DocumentContext.Subject, d.DocumentContext.Level)
	if wc := d.DocumentContext.WordCount; wc != nil && *wc > 0 {
		fmt.Fprintf(&b, "- Word Count: %d\n", *wc)
	}
	section(&b, "Key Topics", d.DocumentContext.KeyTopics)
	section(&b, "Main Points", d.ContentBreakdown.MainPoints)
	section(&b, "Key Definitions", defStrings(d.ContentBreakdown.Definitions))
	section(&b, "Examples", d.ContentBreakdown.Examples)
	section(&b, "References", d.ContentBreakdown.References)
	section(&b, "Writing Guide", d.WritingGuide.SuggestedPoints)
	b.WriteString("\nPage-by-Page Analysis:\n")
	pages(&b, d.PageAnalysis)
	return strings.TrimSpace(b.String())
}

func section(b *strings.Builder, title string, items []string) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
}

func pages(b *strings.Builder, ps []analysis.PageDetail) {
	for _, p := range ps {
		fmt.Fprintf(b, "\nPage %d:\nContent: %s\nKey Points:\n", p.PageNumber, p.Content)
		for _, k := range p.KeyPoints {
			b.WriteString("- " + k + "\n")
		}
		b.WriteString("Useful Content:\n")
		for _, u := range p.UsefulContent {
			b.WriteString("- " + u + "\n")
		}
	}
}

func defStrings(defs []analysis.Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.String())
	}
	return out
}
