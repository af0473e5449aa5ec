package service

import "github.com/projectziio/ziio-ai/internal/analysis"

const (
	unknown       = "Unknown"
	noOverview    = "No overview available"
	noPageContent = "No content available"
)

// pageSection is the per-page block of a single page reply. The model's
// pageNumber is ignored; pages are numbered by position.
type pageSection struct {
	Content       analysis.Text       `json:"content"`
	KeyPoints     analysis.StringList `json:"keyPoints"`
	UsefulContent analysis.StringList `json:"usefulContent"`
	Topics        analysis.StringList `json:"topics"`
	Arguments     analysis.StringList `json:"arguments"`
	Evidence      analysis.StringList `json:"evidence"`
	Connections   analysis.StringList `json:"connections"`
	Importance    analysis.Text       `json:"importance"`
}

type pageResult struct {
	DocumentContext  analysis.DocumentContext  `json:"documentContext"`
	ContentBreakdown analysis.ContentBreakdown `json:"contentBreakdown"`
	WritingGuide     analysis.WritingGuide     `json:"writingGuide"`
	Summary          analysis.Summary          `json:"summary"`
	PageAnalysis     pageSection               `json:"pageAnalysis"`
}

// synthesisResult is the whole-document reply; its pageAnalysis is replaced
// by the per-page results.
type synthesisResult struct {
	DocumentContext  analysis.DocumentContext  `json:"documentContext"`
	ContentBreakdown analysis.ContentBreakdown `json:"contentBreakdown"`
	WritingGuide     analysis.WritingGuide     `json:"writingGuide"`
	Summary          analysis.Summary          `json:"summary"`
}

func placeholder(label, overview string) pageResult {
	return pageResult{
		DocumentContext: analysis.DocumentContext{Type: label, Subject: label, Level: label},
		Summary:         analysis.Summary{Overview: overview},
	}
}

func normalize(s synthesisResult, pages []pageResult) *analysis.DocumentAnalysis {
	return &analysis.DocumentAnalysis{
		DocumentContext: analysis.DocumentContext{
			Type:      or(s.DocumentContext.Type, unknown),
			Subject:   or(s.DocumentContext.Subject, unknown),
			Level:     or(s.DocumentContext.Level, unknown),
			WordCount: s.DocumentContext.WordCount,
			KeyTopics: list(s.DocumentContext.KeyTopics),
		},
		ContentBreakdown: analysis.ContentBreakdown{
			MainPoints:  list(s.ContentBreakdown.MainPoints),
			Definitions: definitions(s.ContentBreakdown.Definitions),
			Examples:    list(s.ContentBreakdown.Examples),
			References:  list(s.ContentBreakdown.References),
		},
		WritingGuide: analysis.WritingGuide{
			SuggestedPoints:   list(s.WritingGuide.SuggestedPoints),
			RelevantSources:   list(s.WritingGuide.RelevantSources),
			KeyQuotes:         list(s.WritingGuide.KeyQuotes),
			PossibleArguments: list(s.WritingGuide.PossibleArguments),
		},
		Summary: analysis.Summary{
			Overview:         or(s.Summary.Overview, noOverview),
			KeyPoints:        list(s.Summary.KeyPoints),
			ConclusionPoints: list(s.Summary.ConclusionPoints),
		},
		PageAnalysis: pageDetails(pages),
	}
}

// mergePages builds the document from page results alone: context and
// overview from the first page, every list the de-duplicated union in page
// order.
func mergePages(pages []pageResult) *analysis.DocumentAnalysis {
	var first pageResult
	if len(pages) > 0 {
		first = pages[0]
	}
	union := func(pick func(pageResult) analysis.StringList) analysis.StringList {
		seen := map[string]bool{}
		out := analysis.StringList{}
		for _, p := range pages {
			for _, v := range pick(p) {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		}
		return out
	}
	defs := []analysis.Definition{}
	seenDefs := map[string]bool{}
	for _, p := range pages {
		for _, d := range p.ContentBreakdown.Definitions {
			if k := d.String(); !seenDefs[k] {
				seenDefs[k] = true
				defs = append(defs, d)
			}
		}
	}

	return &analysis.DocumentAnalysis{
		DocumentContext: analysis.DocumentContext{
			Type:      or(first.DocumentContext.Type, unknown),
			Subject:   or(first.DocumentContext.Subject, unknown),
			Level:     or(first.DocumentContext.Level, unknown),
			WordCount: first.DocumentContext.WordCount,
			KeyTopics: union(func(p pageResult) analysis.StringList { return p.DocumentContext.KeyTopics }),
		},
		ContentBreakdown: analysis.ContentBreakdown{
			MainPoints:  union(func(p pageResult) analysis.StringList { return p.ContentBreakdown.MainPoints }),
			Definitions: defs,
			Examples:    union(func(p pageResult) analysis.StringList { return p.ContentBreakdown.Examples }),
			References:  union(func(p pageResult) analysis.StringList { return p.ContentBreakdown.References }),
		},
		WritingGuide: analysis.WritingGuide{
			SuggestedPoints:   union(func(p pageResult) analysis.StringList { return p.WritingGuide.SuggestedPoints }),
			RelevantSources:   union(func(p pageResult) analysis.StringList { return p.WritingGuide.RelevantSources }),
			KeyQuotes:         union(func(p pageResult) analysis.StringList { return p.WritingGuide.KeyQuotes }),
			PossibleArguments: union(func(p pageResult) analysis.StringList { return p.WritingGuide.PossibleArguments }),
		},
		Summary: analysis.Summary{
			Overview:         or(first.Summary.Overview, noOverview),
			KeyPoints:        union(func(p pageResult) analysis.StringList { return p.Summary.KeyPoints }),
			ConclusionPoints: union(func(p pageResult) analysis.StringList { return p.Summary.ConclusionPoints }),
		},
		PageAnalysis: pageDetails(pages),
	}
}

func pageDetails(pages []pageResult) []analysis.PageDetail {
	out := make([]analysis.PageDetail, 0, len(pages))
	for i, p := range pages {
		out = append(out, analysis.PageDetail{
			PageNumber:    i + 1,
			Content:       or(string(p.PageAnalysis.Content), or(p.Summary.Overview, noPageContent)),
			KeyPoints:     list(p.PageAnalysis.KeyPoints),
			UsefulContent: list(p.PageAnalysis.UsefulContent),
			Topics:        list(p.PageAnalysis.Topics),
			Arguments:     list(p.PageAnalysis.Arguments),
			Evidence:      list(p.PageAnalysis.Evidence),
			Connections:   list(p.PageAnalysis.Connections),
			Importance:    string(p.PageAnalysis.Importance),
		})
	}
	return out
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func list(l analysis.StringList) analysis.StringList {
	if l == nil {
		return analysis.StringList{}
	}
	return l
}

func definitions(d []analysis.Definition) []analysis.Definition {
	if d == nil {
		return []analysis.Definition{}
	}
	return d
}
