package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mailbot/internal/model"
)

func TestFormatBatchTruncatesLongBodies(t *testing.T) {
	long := strings.Repeat("x", maxBodyChars+100)
	formatted := formatBatch([]*model.Message{{ID: "m1", Subject: "Long one", Body: long}})

	assert.Contains(t, formatted, strings.Repeat("x", maxBodyChars)+"...")
	assert.NotContains(t, formatted, strings.Repeat("x", maxBodyChars+1))
}

func TestFormatBatchDefaults(t *testing.T) {
	formatted := formatBatch([]*model.Message{{ID: "m1", Snippet: "snippet text"}})

	assert.Contains(t, formatted, "ID: m1")
	assert.Contains(t, formatted, "Subject: No Subject")
	assert.Contains(t, formatted, "From: Unknown")
	// The snippet stands in when the body is empty
	assert.Contains(t, formatted, "Body: snippet text")
}

func TestClassifyPromptListsAllCategories(t *testing.T) {
	prompt := classifyPrompt([]*model.Message{{ID: "m1", Subject: "Hello"}})

	for _, name := range model.Categories {
		assert.Contains(t, prompt, name)
	}
	assert.Contains(t, prompt, "ID: m1")
}
