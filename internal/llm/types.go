package llm

import (
	"encoding/json"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentPart is one element of a multi-part (vision) message.
type ContentPart struct {
	Type     string    `json:"type"` // "text" | "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// TextPart and ImagePart build content parts.
func TextPart(text string) ContentPart { return ContentPart{Type: "text", Text: text} }
func ImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

// Message is a chat message. Content is sent as a plain string unless Parts is set.
type Message struct {
	Role    string
	Content string
	Parts   []ContentPart
}

type wireMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	var content []byte
	var err error
	if len(m.Parts) > 0 {
		content, err = json.Marshal(m.Parts)
	} else {
		content, err = json.Marshal(m.Content)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: content})
}

// UnmarshalJSON accepts both string and multi-part content.
func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	m.Role = w.Role
	m.Content, m.Parts = "", nil
	if len(w.Content) == 0 || string(w.Content) == "null" {
		return nil
	}
	switch w.Content[0] {
	case '"':
		return json.Unmarshal(w.Content, &m.Content)
	case '[':
		return json.Unmarshal(w.Content, &m.Parts)
	}
	return fmt.Errorf("llm: unsupported message content %s", string(w.Content))
}

// Request is an OpenAI-compatible chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
	Error   *errBody `json:"error,omitempty"`
}

type Choice struct {
	Index        int         `json:"index"`
	Message      *ChoiceText `json:"message,omitempty"`
	Delta        *ChoiceText `json:"delta,omitempty"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type ChoiceText struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Text returns the content of the first choice, or "".
func (r *Response) Text() string {
	if r == nil || len(r.Choices) == 0 || r.Choices[0].Message == nil {
		return ""
	}
	return r.Choices[0].Message.Content
}

// errBody is the gateway's {"error":{...}} payload. OpenRouter sends the code
// as a number, other gateways as a string.
type errBody struct {
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code,omitempty"`
}

// code returns the error code as text: 429 and "rate_limited" both survive.
func (e *errBody) code() string {
	if e == nil || len(e.Code) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}
	return string(e.Code)
}

func (e *errBody) status() int {
	if e == nil || len(e.Code) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(e.Code, &n); err == nil {
		return n
	}
	return 0
}
