package prompts

import (
	"fmt"
	"strings"
)

// ActiveQuestions is the activeDocument value that switches chat to
// assessment-requirements mode.
const ActiveQuestions = "questions"

const proofread = `You are an expert proofreader and writing assistant. Review the text for grammar, spelling, punctuation, and style issues.
Provide suggestions in JSON format with the following structure:
{
  "suggestions": [
    { "type": "grammar"|"spelling"|"style", "text": string, "replacement": string }
  ],
  "stats": {
    "words": number,
    "characters": number,
    "sentences": number
  },
  "score": {
    "readability": number,
    "grammar": number,
    "style": number
  }
}`

func Proofread() string { return proofread }

const (
	assessmentChat = `You are an AI assistant specifically focused on analyzing assessment requirements. Your primary tasks are:

1. FIRST, clearly identify the type of assessment (e.g., Learning Assessment, Task, Assignment, Project Brief)
2. Break down and list ALL specific requirements the assessor is asking for
3. For each requirement:
   - Identify if it's a main task or sub-task
   - Note any specific deliverables mentioned
   - Highlight any marking criteria or weightage
   - Point out any specific constraints or conditions
4. When answering questions:
   - Always refer back to the specific assessment requirements
   - Cite relevant information from the context document
   - Explain how the context material helps address each requirement

Remember: Your primary goal is to ensure the student clearly understands WHAT the assessor is asking for before proceeding with any answers.`

	documentChat = "You are an AI assistant helping analyze documents. Provide detailed answers based on the document content."

	assessmentTail = "IMPORTANT: Always start by identifying and listing the assessment requirements before providing any answers. Make sure to break down complex tasks into clear, manageable components."
	documentTail   = "Provide detailed answers based on this content and analysis."
)

// ChatSystem assembles the chat system message. A non-empty systemMessage
// replaces the built-in base; the document content and the closing
// instruction are always appended.
func ChatSystem(systemMessage, activeDocument, fileContent string) string {
	questions := activeDocument == ActiveQuestions
	base := systemMessage
	if base == "" {
		base = documentChat
		if questions {
			base = assessmentChat
		}
	}
	tail := documentTail
	if questions {
		tail = assessmentTail
	}
	return base + "\n\nThe following is the document content and analysis:\n\n" + fileContent + "\n\n" + tail
}

// ChatRole is the short system message a client sends along with the
// rendered analysis context.
func ChatRole(activeDocument string) string {
	if activeDocument == ActiveQuestions {
		return "You are an AI assistant helping with assignment questions. Use the context document to help answer questions accurately. When answering, cite relevant information from the context document."
	}
	return "You are an AI assistant helping analyze a document. Provide detailed answers based on the document content."
}

func ArticleSystem() string {
	return "You are a professional article writer. Write engaging, well-researched articles that are informative and easy to read. Focus on maintaining a consistent tone and style throughout the piece. Structure the content with clear sections and smooth transitions."
}

func ArticleUser(topic, style string, length int) string {
	return fmt.Sprintf("Write an article about %s. Style: %s. Target length: %d words.", topic, style, length)
}

// Answer is the prompt for drafting an academic answer to one question.
func Answer(question, context string, requirements []string, customInstructions string) string {
	var b strings.Builder
	b.WriteString(`You are writing an academic answer. Directly answer the following question using the provided context. Write naturally as if you deeply understand the material.

First, analyze if the question contains multiple parts (a, b, c, d) or separate activities/tasks:
1. Check if there are labeled parts like (a), (b), (c), etc.
2. Look for numbered tasks or activities
3. Identify if there are multiple questions within the main question
4. Note any requirements for separate files, diagrams, or additional materials

Question to Answer:
`)
	b.WriteString(question)
	b.WriteString("\n\nContext Information:\n")
	b.WriteString(context)
	b.WriteString("\n\nKey Points to Consider:\n")
	b.WriteString(bullets(requirements))
	b.WriteString("\n\n")
	if customInstructions != "" {
		b.WriteString("Custom Instructions:\n" + customInstructions + "\n\n")
	}
	b.WriteString(`Important:
- If multiple parts exist, address each part separately but maintain flow
- Clearly indicate transitions between different parts/activities
- Write a direct, comprehensive answer
- Do not mention question numbers or page numbers
- Do not include any guidelines or meta-instructions
- Do not use AI-like formatting or bullet points
- Write in a natural academic style with proper paragraphing
- Seamlessly incorporate evidence from the context
- Let the answer flow naturally across paragraphs
- Use proper academic language while maintaining readability
- If diagrams or files are required, mention them naturally in the answer

Write your answer now:`)
	return b.String()
}

const (
	templateIntro = "Based on the analysis of the given materials, this response will address the key aspects of the question. The following discussion will examine the main points and provide a comprehensive answer supported by relevant evidence.\n\n"
	templateBody  = "Furthermore, %s can be addressed by examining the evidence presented in the materials. The analysis reveals several key points that support this understanding."
	templateEnd   = "\n\nIn conclusion, the analysis demonstrates a clear understanding of the key concepts and requirements. The evidence presented supports the main arguments, and the discussion has addressed the central aspects of the question. This comprehensive examination provides a solid foundation for understanding the topic at hand."
)

// TemplateAnswer is the offline answer used when no model reply is available:
// a fixed introduction, one paragraph per requirement and a fixed conclusion.
func TemplateAnswer(requirements []string) string {
	paras := make([]string, 0, len(requirements))
	for _, r := range requirements {
		paras = append(paras, fmt.Sprintf(templateBody, strings.ToLower(r)))
	}
	return templateIntro + strings.Join(paras, "\n\n") + templateEnd
}

func bullets(items []string) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}
