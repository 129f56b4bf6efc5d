package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("openai", "gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	assert.Nil(t, LookupCost("openai", "gpt-unknown"))
}

func TestLookupCost_LocalModelsAreFree(t *testing.T) {
	c := LookupCost("ollama", "llama2")
	require.NotNil(t, c)
	assert.Zero(t, c.Cost(5000, 5000))
}
