package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationInstructionListsNamespaces(t *testing.T) {
	p := ClassificationInstruction()
	assert.Contains(t, p, "```json")
	assert.Contains(t, p, "physics,chemistry")
	assert.Contains(t, p, "philosophy_ethics")
}

func TestNotesBuilder(t *testing.T) {
	p := NewNotesBuilder([]string{"light reactions", "Calvin cycle"}, []string{"Chlorophyll absorbs light."}).Build()

	assert.Contains(t, p, "- light reactions\n")
	assert.Contains(t, p, "- Calvin cycle\n")
	assert.Contains(t, p, "&&&image:(description of image)&&&")
	assert.Contains(t, p, "```markdown")
	assert.Contains(t, p, "[1] Chlorophyll absorbs light.")
	assert.Contains(t, p, "ignore them")
}

func TestNotesBuilderWithoutContext(t *testing.T) {
	p := NewNotesBuilder(nil, nil).Build()
	assert.False(t, strings.Contains(p, "<context>"))
	assert.Contains(t, p, "implied by the context")
}

func TestModifyText(t *testing.T) {
	p := ModifyText("Cells divide.", "make it simpler")
	assert.Contains(t, p, "three times")
	assert.Contains(t, p, "```text")
	assert.Contains(t, p, "Cells divide.")
	assert.Contains(t, p, "make it simpler")
}
