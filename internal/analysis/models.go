package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DocumentAnalysis is the writing-assignment view of a whole document.
type DocumentAnalysis struct {
	DocumentContext  DocumentContext  `json:"documentContext" bson:"documentContext"`
	ContentBreakdown ContentBreakdown `json:"contentBreakdown" bson:"contentBreakdown"`
	WritingGuide     WritingGuide     `json:"writingGuide" bson:"writingGuide"`
	Summary          Summary          `json:"summary" bson:"summary"`
	PageAnalysis     []PageDetail     `json:"pageAnalysis" bson:"pageAnalysis"`
}

type DocumentContext struct {
	Type      string     `json:"type" bson:"type"`
	Subject   string     `json:"subject" bson:"subject"`
	Level     string     `json:"level" bson:"level"`
	WordCount *int       `json:"wordCount,omitempty" bson:"wordCount,omitempty"`
	KeyTopics StringList `json:"keyTopics" bson:"keyTopics"`
}

// UnmarshalJSON accepts wordCount as a number, a numeric string or null,
// and any JSON value for the text fields.
func (d *DocumentContext) UnmarshalJSON(b []byte) error {
	type alias DocumentContext
	var w struct {
		alias
		Type      Text            `json:"type"`
		Subject   Text            `json:"subject"`
		Level     Text            `json:"level"`
		WordCount json.RawMessage `json:"wordCount"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = DocumentContext(w.alias)
	d.Type, d.Subject, d.Level = string(w.Type), string(w.Subject), string(w.Level)
	d.WordCount = parseCount(w.WordCount)
	return nil
}

func parseCount(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		n := int(math.Round(f))
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, ",", ""))); err == nil {
			return &n
		}
	}
	return nil
}

type ContentBreakdown struct {
	MainPoints  StringList   `json:"mainPoints" bson:"mainPoints"`
	Definitions []Definition `json:"definitions" bson:"definitions"`
	Examples    StringList   `json:"examples" bson:"examples"`
	References  StringList   `json:"references" bson:"references"`
}

type WritingGuide struct {
	SuggestedPoints   StringList `json:"suggestedPoints" bson:"suggestedPoints"`
	RelevantSources   StringList `json:"relevantSources" bson:"relevantSources"`
	KeyQuotes         StringList `json:"keyQuotes" bson:"keyQuotes"`
	PossibleArguments StringList `json:"possibleArguments" bson:"possibleArguments"`
}

type Summary struct {
	Overview         string     `json:"overview" bson:"overview"`
	KeyPoints        StringList `json:"keyPoints" bson:"keyPoints"`
	ConclusionPoints StringList `json:"conclusionPoints" bson:"conclusionPoints"`
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	type alias Summary
	var w struct {
		alias
		Overview Text `json:"overview"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Summary(w.alias)
	s.Overview = string(w.Overview)
	return nil
}

type PageDetail struct {
	PageNumber    int        `json:"pageNumber" bson:"pageNumber"`
	Content       string     `json:"content" bson:"content"`
	KeyPoints     StringList `json:"keyPoints" bson:"keyPoints"`
	UsefulContent StringList `json:"usefulContent" bson:"usefulContent"`
	Topics        StringList `json:"topics" bson:"topics"`
	Arguments     StringList `json:"arguments" bson:"arguments"`
	Evidence      StringList `json:"evidence" bson:"evidence"`
	Connections   StringList `json:"connections" bson:"connections"`
	Importance    string     `json:"importance" bson:"importance"`
}

// Definition is either a bare string or a {term, definition} pair.
type Definition struct {
	Text       string `json:"-" bson:"text,omitempty"`
	Term       string `json:"term,omitempty" bson:"term,omitempty"`
	Definition string `json:"definition,omitempty" bson:"definition,omitempty"`
}

func (d Definition) String() string {
	if d.Term == "" && d.Definition == "" {
		return d.Text
	}
	if d.Definition == "" {
		return d.Term
	}
	return d.Term + ": " + d.Definition
}

func (d Definition) MarshalJSON() ([]byte, error) {
	if d.Term == "" && d.Definition == "" {
		return json.Marshal(d.Text)
	}
	type pair struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	}
	return json.Marshal(pair{Term: d.Term, Definition: d.Definition})
}

func (d *Definition) UnmarshalJSON(b []byte) error {
	*d = Definition{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &d.Text)
	}
	if b[0] != '{' {
		var t Text
		if err := json.Unmarshal(b, &t); err != nil {
			return fmt.Errorf("definition: %w", err)
		}
		d.Text = string(t)
		return nil
	}
	var p struct {
		Term       Text `json:"term"`
		Definition Text `json:"definition"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("definition: %w", err)
	}
	d.Term, d.Definition = string(p.Term), string(p.Definition)
	return nil
}

// Text decodes any JSON value into a string: arrays are joined with "; ",
// numbers and booleans keep their literal form, objects stay compact JSON.
// Models put lists where a sentence belongs often enough that one stray
// field must not fail the whole reply.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '[':
		var items []Text
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if it != "" {
				parts = append(parts, string(it))
			}
		}
		*t = Text(strings.Join(parts, "; "))
	default:
		var c bytes.Buffer
		if err := json.Compact(&c, b); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		*t = Text(c.String())
	}
	return nil
}

// StringList decodes a JSON array of scalars, or a single value, into
// strings. Models are not consistent about either.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var t Text
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		*l = nil
		if t != "" {
			*l = StringList{string(t)}
		}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	out := make(StringList, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var c bytes.Buffer
		if err := json.Compact(&c, r); err != nil {
			return err
		}
		out = append(out, c.String())
	}
	*l = out
	return nil
}

// FileAnalysis is a saved analysis result.
type FileAnalysis struct {
	ID        string          `json:"id" bson:"id"`
	FileName  string          `json:"fileName" bson:"fileName"`
	FileSize  int64           `json:"fileSize" bson:"fileSize"`
	Analysis  json.RawMessage `json:"analysis" bson:"-"`
	Timestamp time.Time       `json:"timestamp" bson:"timestamp"`
}
