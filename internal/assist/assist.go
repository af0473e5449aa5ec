// Package assist implements the streamed writing features (proofreading,
// document chat, article drafting) and academic answer generation.
package assist

import (
	"context"
	"errors"
	"strings"

	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/prompts"
)

var (
	ErrNoText     = errors.New("no text provided")
	ErrNoMessages = errors.New("no messages provided")
	ErrBadRole    = errors.New("message role must be user, assistant or system")
	ErrNoTopic    = errors.New("topic is required")
	ErrNoQuestion = errors.New("question is required")
)

const (
	temperature = 0.7
	maxTokens   = 2000

	defaultArticleStyle  = "informative"
	defaultArticleLength = 1000
)

// Service sends writing-assist requests to the gateway.
type Service struct {
	gw     llm.Gateway
	models llm.Models
}

func New(gw llm.Gateway, models llm.Models) *Service {
	return &Service{gw: gw, models: models}
}

// Proofread streams the proofreader's JSON suggestions for text.
func (s *Service) Proofread(ctx context.Context, text string) (*llm.Stream, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	req := llm.Request{
		Model:       s.models.Proofread,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompts.Proofread()},
			{Role: llm.RoleUser, Content: text},
		},
	}
	return llm.StreamWithFallback(ctx, s.gw, req, s.models.ProofreadBackup)
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatInput is the chat request. AnalysisMode is accepted from clients but
// does not change the prompt.
type ChatInput struct {
	Messages       []ChatMessage `json:"messages"`
	FileContent    string        `json:"fileContent"`
	AnalysisMode   string        `json:"analysisMode"`
	SystemMessage  string        `json:"systemMessage"`
	ActiveDocument string        `json:"activeDocument"`
}

// Chat streams an answer about the analyzed document.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*llm.Stream, error) {
	if len(in.Messages) == 0 {
		return nil, ErrNoMessages
	}
	msgs := make([]llm.Message, 0, len(in.Messages)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: prompts.ChatSystem(in.SystemMessage, in.ActiveDocument, in.FileContent)})
	for _, m := range in.Messages {
		switch m.Role {
		case llm.RoleUser, llm.RoleAssistant, llm.RoleSystem:
		default:
			return nil, ErrBadRole
		}
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	req := llm.Request{Model: s.models.Chat, Temperature: temperature, MaxTokens: maxTokens, Messages: msgs}
	return llm.StreamWithFallback(ctx, s.gw, req, s.models.ChatBackup)
}

type ArticleInput struct {
	Topic  string `json:"topic"`
	Style  string `json:"style"`
	Length int    `json:"length"`
}

// Article streams a drafted article. Style defaults to "informative" and
// length to 1000 words.
func (s *Service) Article(ctx context.Context, in ArticleInput) (*llm.Stream, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, ErrNoTopic
	}
	style := strings.TrimSpace(in.Style)
	if style == "" {
		style = defaultArticleStyle
	}
	length := in.Length
	if length <= 0 {
		length = defaultArticleLength
	}
	req := llm.Request{
		Model: s.models.Article,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompts.ArticleSystem()},
			{Role: llm.RoleUser, Content: prompts.ArticleUser(topic, style, length)},
		},
	}
	return llm.StreamWithFallback(ctx, s.gw, req, s.models.ArticleBackup)
}
