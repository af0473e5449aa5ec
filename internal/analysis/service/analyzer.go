package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/projectziio/ziio-ai/internal/analysis"
	"github.com/projectziio/ziio-ai/internal/cache"
	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/prompts"
	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/projectziio/ziio-ai/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoImage     = errors.New("no image URL provided")
	ErrNoImages    = errors.New("no image URLs provided")
	ErrNoText      = errors.New("no text provided")
	ErrUnparseable = errors.New("failed to parse analysis results")
)

const temperature = 0.7

// Options tunes an Analyzer. The zero value disables caching and analyzes
// pages two at a time.
type Options struct {
	Cache           cache.Cache
	CacheTTL        time.Duration
	PageConcurrency int
}

// Analyzer runs the page, document and text analyses against the gateway.
type Analyzer struct {
	gw     llm.Gateway
	models llm.Models
	opts   Options
}

func NewAnalyzer(gw llm.Gateway, models llm.Models, opts Options) *Analyzer {
	if opts.PageConcurrency <= 0 {
		opts.PageConcurrency = 2
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &Analyzer{gw: gw, models: models, opts: opts}
}

// AnalyzePage analyzes one assessment page image and returns the model's
// JSON object unchanged.
func (a *Analyzer) AnalyzePage(ctx context.Context, imageURL string, page, total int) (json.RawMessage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrNoImage
	}
	if page < 1 {
		page = 1
	}
	if total < page {
		total = page
	}

	key := cache.Key("assessment", a.models.Vision, imageURL, strconv.Itoa(page), strconv.Itoa(total))
	if b, ok := a.cached(ctx, key); ok {
		return b, nil
	}

	req := visionRequest(a.models.Vision, prompts.AssessmentPage(page, total), prompts.PageRequest, imageURL)
	resp, err := llm.CompleteWithFallback(ctx, a.gw, req, a.models.FileAnalysis)
	if err != nil {
		return nil, err
	}
	out, err := jsonObject(llm.StripCodeFences(resp.Text()))
	if err != nil {
		logger.Warnf("analysis: page %d/%d: unparseable reply from %s", page, total, resp.Model)
		return nil, ErrUnparseable
	}
	a.store(ctx, key, out)
	return out, nil
}

// AnalyzeText scores plain text in quick, deep or technical mode.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, mode string) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	req := llm.Request{
		Model:       a.models.FileAnalysis,
		Temperature: temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompts.TextAnalysis(mode)},
			{Role: llm.RoleUser, Content: text},
		},
	}
	resp, err := llm.CompleteWithFallback(ctx, a.gw, req, a.models.TextBackup)
	if err != nil {
		return nil, err
	}
	out, err := jsonObject(llm.ExtractJSONObject(llm.StripCodeFences(resp.Text())))
	if err != nil {
		return nil, ErrUnparseable
	}
	return out, nil
}

// AnalyzeDocument analyzes every page, then asks for one synthesis over the
// whole document. Page failures become placeholders; a synthesis reply that
// does not parse is replaced by a merge of the page results.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, imageURLs []string) (*analysis.DocumentAnalysis, error) {
	urls := make([]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoImages
	}

	pages := make([]pageResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.PageConcurrency)
	for i := range urls {
		g.Go(func() error {
			res, err := a.documentPage(gctx, urls[i], i+1, len(urls))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warnf("analysis: page %d/%d failed: %v", i+1, len(urls), err)
				res = placeholder("Error", "Analysis failed")
			}
			pages[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	req := visionRequest(a.models.Vision, prompts.DocumentSynthesis(urls), prompts.PageRequest, urls[0])
	resp, err := llm.CompleteWithFallback(ctx, a.gw, req, a.models.FileAnalysis)
	if err != nil {
		return nil, fmt.Errorf("document synthesis: %w", err)
	}
	var syn synthesisResult
	if err := decodeObject(llm.ExtractJSONObject(resp.Text()), &syn); err != nil {
		logger.Infof("analysis: synthesis reply unparseable (%v), merging %d pages", err, len(pages))
		return mergePages(pages), nil
	}
	return normalize(syn, pages), nil
}

// documentPage analyzes one page. A reply that is not JSON yields the
// "Unknown" placeholder; only a failed call returns an error.
func (a *Analyzer) documentPage(ctx context.Context, url string, page, total int) (pageResult, error) {
	key := cache.Key("document-page", a.models.Vision, url, strconv.Itoa(page), strconv.Itoa(total))
	if b, ok := a.cached(ctx, key); ok {
		var res pageResult
		if err := json.Unmarshal(b, &res); err == nil {
			return res, nil
		}
	}

	req := visionRequest(a.models.Vision, prompts.DocumentPage(page, total), prompts.PageRequest, url)
	resp, err := llm.CompleteWithFallback(ctx, a.gw, req, a.models.FileAnalysis)
	if err != nil {
		return pageResult{}, err
	}
	var res pageResult
	if err := decodeObject(llm.ExtractJSONObject(resp.Text()), &res); err != nil {
		logger.Warnf("analysis: page %d/%d: unparseable reply: %v", page, total, err)
		return placeholder("Unknown", "Failed to parse page analysis"), nil
	}
	if b, err := json.Marshal(res); err == nil {
		a.store(ctx, key, b)
	}
	return res, nil
}

func (a *Analyzer) cached(ctx context.Context, key string) ([]byte, bool) {
	if a.opts.Cache == nil {
		return nil, false
	}
	b, ok, err := a.opts.Cache.Get(ctx, key)
	if err != nil {
		logger.Warnf("analysis: cache get: %v", err)
		return nil, false
	}
	if ok {
		metrics.AnalysisCache.WithLabelValues("hit").Inc()
		return b, true
	}
	metrics.AnalysisCache.WithLabelValues("miss").Inc()
	return nil, false
}

func (a *Analyzer) store(ctx context.Context, key string, b []byte) {
	if a.opts.Cache == nil {
		return
	}
	if err := a.opts.Cache.Set(ctx, key, b, a.opts.CacheTTL); err != nil {
		logger.Warnf("analysis: cache set: %v", err)
	}
}

func visionRequest(model, system, text, imageURL string) llm.Request {
	return llm.Request{
		Model:       model,
		Temperature: temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Parts: []llm.ContentPart{llm.TextPart(text), llm.ImagePart(imageURL)}},
		},
	}
}

// jsonObject validates s as a JSON object and returns it compacted.
func jsonObject(s string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := decodeObject(s, &obj); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeObject(s string, v any) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return errors.New("reply is not a JSON object")
	}
	return json.Unmarshal([]byte(s), v)
}
