package assist

import (
	"context"
	"strings"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/prompts"
	"github.com/projectziio/ziio-ai/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	SourceModel    = "model"
	SourceTemplate = "template"
)

type AnswerInput struct {
	Question           string   `json:"question"`
	Context            string   `json:"context"`
	Requirements       []string `json:"requirements"`
	CustomInstructions string   `json:"customInstructions"`
}

type Answer struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

// PageAnswer is the answer drafted for one page of a questions document.
type PageAnswer struct {
	PageNumber int    `json:"pageNumber"`
	Question   string `json:"question"`
	Answer
}

// Answer drafts an academic answer. When the gateway fails or returns
// nothing the templated answer is used instead; only cancellation is an
// error.
func (s *Service) Answer(ctx context.Context, in AnswerInput) (Answer, error) {
	if strings.TrimSpace(in.Question) == "" {
		return Answer{}, ErrNoQuestion
	}
	req := llm.Request{
		Model:       s.models.FileAnalysis,
		Temperature: temperature,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompts.Answer(in.Question, in.Context, in.Requirements, in.CustomInstructions)},
		},
	}
	resp, err := llm.CompleteWithFallback(ctx, s.gw, req, s.models.TextBackup)
	if err != nil {
		if ctx.Err() != nil {
			return Answer{}, ctx.Err()
		}
		logger.Warnf("assist: answer generation failed, using template: %v", err)
		return Answer{Answer: prompts.TemplateAnswer(in.Requirements), Source: SourceTemplate}, nil
	}
	return Answer{Answer: strings.TrimSpace(resp.Text()), Source: SourceModel}, nil
}

// AnswerDocument drafts one answer per page of the questions analysis. Each
// page's key points, topics and arguments are its requirements; the overview
// of the reading (context) document is shared by every page.
func (s *Service) AnswerDocument(ctx context.Context, questions, reading *analysis.DocumentAnalysis, customInstructions string, concurrency int) ([]PageAnswer, error) {
	if questions == nil || len(questions.PageAnalysis) == 0 {
		return nil, ErrNoQuestion
	}
	overview := ""
	if reading != nil {
		overview = reading.Summary.Overview
	}
	if concurrency <= 0 {
		concurrency = 2
	}

	out := make([]PageAnswer, len(questions.PageAnalysis))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, page := range questions.PageAnalysis {
		g.Go(func() error {
			reqs := make([]string, 0, len(page.KeyPoints)+len(page.Topics)+len(page.Arguments))
			reqs = append(reqs, page.KeyPoints...)
			reqs = append(reqs, page.Topics...)
			reqs = append(reqs, page.Arguments...)
			a, err := s.Answer(gctx, AnswerInput{
				Question:           page.Content,
				Context:            overview,
				Requirements:       reqs,
				CustomInstructions: customInstructions,
			})
			if err != nil {
				return err
			}
			out[i] = PageAnswer{PageNumber: page.PageNumber, Question: page.Content, Answer: a}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
