package prompt

import (
	"fmt"
	"strings"

	"notecraft-be/pkg/rag/namespace"
)

// MinTopics and MaxTopics bound the subtopic list asked of the classifier.
const (
	MinTopics = 10
	MaxTopics = 15
)

// ClassificationInstruction is appended to the raw user query. It pins the
// model to a single ```json block with a namespace from the closed list.
func ClassificationInstruction() string {
	var prompt strings.Builder

	prompt.WriteString("\n\n<task>\n")
	prompt.WriteString(fmt.Sprintf("Generate %d to %d subtopics that should be covered for this topic from an academic perspective.\n", MinTopics, MaxTopics))
	prompt.WriteString("If subtopics are already present in the content, retain them without modification.\n")
	prompt.WriteString("Classify the topic into exactly one namespace from the namespace list.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Output only raw JSON inside a single ```json block and nothing else.\n")
	prompt.WriteString("Keys:\n")
	prompt.WriteString("- namespace: one value from the namespace list\n")
	prompt.WriteString("- topics: list of plain strings, no numbers or bullets\n")
	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{"namespace": "cs_math", "topics": ["machine learning algorithms", "graph theory"]}`)
	prompt.WriteString("\n```\n")
	prompt.WriteString("</output_format>\n\n")

	prompt.WriteString("<namespace_list>\n")
	prompt.WriteString(strings.Join(namespace.Strings(), ","))
	prompt.WriteString("\n</namespace_list>\n")

	return prompt.String()
}

// NotesBuilder assembles the note generation prompt.
type NotesBuilder struct {
	topics    []string
	documents []string
}

func NewNotesBuilder(topics []string, documents []string) *NotesBuilder {
	return &NotesBuilder{topics: topics, documents: documents}
}

func (b *NotesBuilder) Build() string {
	var prompt strings.Builder

	b.writeObjective(&prompt)
	b.writeFormatting(&prompt)
	b.writeContext(&prompt)

	return prompt.String()
}

func (b *NotesBuilder) writeObjective(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("Act as an expert academic note-taking assistant.\n")
	if len(b.topics) > 0 {
		prompt.WriteString("Generate comprehensive, well-structured notes covering all of these topics:\n")
		for _, t := range b.topics {
			prompt.WriteString("- ")
			prompt.WriteString(t)
			prompt.WriteString("\n")
		}
	} else {
		prompt.WriteString("Generate comprehensive, well-structured notes on the subject implied by the context.\n")
	}
	prompt.WriteString("</task>\n\n")
}

func (b *NotesBuilder) writeFormatting(prompt *strings.Builder) {
	prompt.WriteString("<formatting>\n")
	prompt.WriteString("1. Organize notes hierarchically with headings and subheadings, and keep the word count high\n")
	prompt.WriteString("2. Focus on clarity, accuracy and relevance. Include examples where applicable\n")
	prompt.WriteString("3. Never add double blank lines or meta text about the notes themselves\n")
	prompt.WriteString("4. To include an image write &&&image:(description of image)&&& at the place where the image belongs, in between the text\n")
	prompt.WriteString("   Example: &&&image:(diagram of the human eye)&&&\n")
	prompt.WriteString("5. Use at most 2-3 images per heading\n")
	prompt.WriteString("6. Output the notes inside a single ```markdown block using markdown syntax\n")
	prompt.WriteString("</formatting>\n\n")
}

func (b *NotesBuilder) writeContext(prompt *strings.Builder) {
	if len(b.documents) == 0 {
		return
	}
	prompt.WriteString("<context>\n")
	prompt.WriteString("Reference passages follow. If they are irrelevant to the topics, ignore them.\n")
	for i, doc := range b.documents {
		prompt.WriteString(fmt.Sprintf("[%d] %s\n", i+1, doc))
	}
	prompt.WriteString("</context>\n")
}

// ModifyText asks for a reworked excerpt inside a ```text block.
func ModifyText(excerpt, instruction string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Rewrite the excerpt below following the instruction.\n")
	prompt.WriteString("The result must be at most three times as long as the excerpt.\n")
	prompt.WriteString("Output only the rewritten excerpt inside a single ```text block.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<instruction>\n")
	prompt.WriteString(instruction)
	prompt.WriteString("\n</instruction>\n\n")

	prompt.WriteString("<excerpt>\n")
	prompt.WriteString(excerpt)
	prompt.WriteString("\n</excerpt>\n")

	return prompt.String()
}
