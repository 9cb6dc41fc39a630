package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBatch_CountAndFields(t *testing.T) {
	gen := NewWithSeed(3)

	logs := gen.GenerateBatch(100)
	require.Len(t, logs, 100)

	for _, entry := range logs {
		assert.True(t, entry.EventType.Valid())
		assert.True(t, entry.Severity.Valid())
		assert.NotEmpty(t, entry.SourceIP)
		assert.NotEmpty(t, entry.Username)
		assert.NotEmpty(t, entry.Description)
		assert.NotEmpty(t, entry.RawLog)
		assert.NotContains(t, entry.Description, "{ip}")
		assert.NotContains(t, entry.Description, "{user}")
	}
}

func TestGenerateTimeline_SortedWithinRange(t *testing.T) {
	gen := NewWithSeed(5)

	logs := gen.GenerateTimeline(7)
	require.Len(t, logs, 7*50)

	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].Timestamp.Before(logs[i-1].Timestamp),
			"timeline must be sorted by timestamp")
	}
}
