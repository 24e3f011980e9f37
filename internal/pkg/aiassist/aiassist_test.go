package aiassist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateGeneratorSuggestDescription(t *testing.T) {
	g := NewTemplateGenerator()

	text, err := g.SuggestDescription(context.Background(), "Write quarterly report")
	require.NoError(t, err)
	assert.Contains(t, text, "Write quarterly report")

	_, err = g.SuggestDescription(context.Background(), "   ")
	assert.Error(t, err)
}

func TestTemplateGeneratorSuggestSubtasks(t *testing.T) {
	g := NewTemplateGenerator()

	items, err := g.SuggestSubtasks(context.Background(), "Plan the launch")
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.Contains(t, items[0], "Plan the launch")

	_, err = g.SuggestSubtasks(context.Background(), "")
	assert.Error(t, err)
}

func TestTemplateGeneratorSuggestRoutine(t *testing.T) {
	g := NewTemplateGenerator()

	steps, err := g.SuggestRoutine(context.Background(), "exercise more")
	require.NoError(t, err)
	assert.Len(t, steps, 3)

	_, err = g.SuggestRoutine(context.Background(), "")
	assert.Error(t, err)
}
