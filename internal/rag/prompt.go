// ABOUTME: Grounded prompt construction from ranked fragments and the question
// ABOUTME: The instruction forbids answering from anything but the given context
package rag

import (
	"fmt"
	"strings"

	"github.com/harper/askdoc/internal/models"
)

const promptInstruction = `Answer the question using ONLY the context above. ` +
	`Do not use any outside knowledge. If the context does not contain the ` +
	`answer, say that the provided information does not cover it.`

// BuildPrompt assembles the grounded prompt: fragments in rank order, each
// tagged with its rank, then the grounding instruction, then the question.
func BuildPrompt(question string, fragments []models.Scored) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, f := range fragments {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(f.Content))
	}
	b.WriteString("\n")
	b.WriteString(promptInstruction)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
