package prompts

import (
	"fmt"
	"strings"
)

// DocumentPage asks for a writing-assignment analysis of a single page.
func DocumentPage(page, total int) string {
	return fmt.Sprintf(`You are an expert document analyzer focused on extracting detailed content for writing assignments. Your task is to analyze this image and return ONLY a JSON response in the exact format specified below.

IMPORTANT: You must ONLY return a JSON object. Do not include any other text or explanation.
If you cannot analyze the image, return a JSON object with default/empty values.

Required JSON format:
{
  "documentContext": {
    "type": "string (e.g., Assignment, Report, Case Study)",
    "subject": "string (detailed subject area)",
    "level": "string (academic level)",
    "wordCount": null,
    "keyTopics": ["list of main topics covered"]
  },
  "contentBreakdown": {
    "mainPoints": ["detailed list of key arguments or points"],
    "definitions": ["important terms and their detailed explanations"],
    "examples": ["detailed examples with context"],
    "references": ["cited works, sources, or relevant materials"]
  },
  "writingGuide": {
    "suggestedPoints": ["detailed writing suggestions with explanations"],
    "relevantSources": ["recommended sources with brief descriptions"],
    "keyQuotes": ["important quotes with context and page references"],
    "possibleArguments": ["potential arguments to develop with supporting points"]
  },
  "summary": {
    "overview": "detailed overview of the document's purpose and scope",
    "keyPoints": ["comprehensive list of critical points"],
    "conclusionPoints": ["key takeaways and concluding arguments"]
  },
  "pageAnalysis": {
    "pageNumber": %[1]d,
    "content": "detailed summary of this specific page's content",
    "keyPoints": ["key points from this specific page"],
    "usefulContent": ["specific content pieces useful for writing"],
    "topics": ["main topics covered on this page"],
    "arguments": ["arguments presented on this page"],
    "evidence": ["evidence or examples provided on this page"],
    "connections": ["connections to other pages or concepts"],
    "importance": "explanation of this page's importance in the overall document"
  }
}

This is page %[1]d of %[2]d - focus on providing detailed, academic-level analysis that would be useful for writing assignments.
For the page analysis:
1. Provide a thorough summary of what this specific page contains
2. Extract all key points unique to this page
3. Note any arguments or evidence presented
4. Identify connections to other parts of the document
5. Explain the page's importance in the overall document flow
6. Include any quotes or specific content that could be directly used in writing

Remember: Return ONLY the JSON object, no other text.`, page, total)
}

// DocumentSynthesis asks for one analysis covering every page image.
func DocumentSynthesis(imageURLs []string) string {
	return `You are an expert document analyzer focused on extracting content for writing assignments. Your task is to analyze these images and return ONLY a JSON response in the exact format specified below.

IMPORTANT: You must ONLY return a JSON object. Do not include any other text or explanation.
If you cannot analyze the images, return a JSON object with default/empty values.

The URLs to analyze are:
` + strings.Join(imageURLs, "\n") + `

Required JSON format:
{
  "documentContext": {
    "type": "string",
    "subject": "string",
    "level": "string",
    "wordCount": null,
    "keyTopics": []
  },
  "contentBreakdown": {
    "mainPoints": [],
    "definitions": [],
    "examples": [],
    "references": []
  },
  "writingGuide": {
    "suggestedPoints": [],
    "relevantSources": [],
    "keyQuotes": [],
    "possibleArguments": []
  },
  "summary": {
    "overview": "string",
    "keyPoints": [],
    "conclusionPoints": []
  },
  "pageAnalysis": [{
    "pageNumber": "number",
    "content": "detailed summary of this specific page's content",
    "keyPoints": ["key points from this specific page"],
    "usefulContent": ["specific content pieces useful for writing"],
    "topics": ["main topics covered on this page"],
    "arguments": ["arguments presented on this page"],
    "evidence": ["evidence or examples provided on this page"],
    "connections": ["connections to other pages or concepts"],
    "importance": "explanation of this page's importance in the overall document"
  }]
}

Remember: Return ONLY the JSON object, no other text.
Focus on extracting content that would be useful for writing an assignment.
Provide detailed page-by-page analysis with clear connections between pages.
Include key points, quotes, references, and any content that could be used directly in writing.`
}

var textModes = map[string]string{
	"quick":     "Focus on essential elements: grammar, spelling, and basic style. Provide a quick overview.",
	"deep":      "Perform an in-depth analysis including tone, style, structure, and detailed suggestions.",
	"technical": "Focus on technical accuracy, terminology consistency, and technical writing best practices.",
}

// ValidTextMode reports whether mode is quick, deep or technical.
func ValidTextMode(mode string) bool {
	_, ok := textModes[mode]
	return ok
}

// TextAnalysis is the system prompt for scoring plain text. Unknown modes
// are treated as "deep".
func TextAnalysis(mode string) string {
	focus, ok := textModes[mode]
	if !ok {
		focus = textModes["deep"]
	}
	return `You are an advanced document analyzer powered by Llama Vision. Analyze the given text and provide a comprehensive analysis in JSON format.
` + focus + `

Return your analysis as a JSON object with the following structure:
{
  "analysis": {
    "overview": {
      "readabilityScore": number (0-100),
      "technicalAccuracy": number (0-100),
      "styleConsistency": number (0-100),
      "overallScore": number (0-100)
    },
    "structure": {
      "wordCount": number,
      "sentenceCount": number,
      "paragraphCount": number
    },
    "language": {
      "tone": string,
      "style": string,
      "complexity": string
    },
    "suggestions": {
      "critical": [{ issue: string, suggestion: string }],
      "important": [{ issue: string, suggestion: string }],
      "minor": [{ issue: string, suggestion: string }]
    },
    "keywords": string[],
    "strengths": string[],
    "improvement_areas": string[]
  }
}`
}
