package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteArtifact_RoundTrips(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "run-1")
	require.NoError(t, err)

	outputs := map[string]any{"policy_structure": map[string]any{"policy_code": "SMR"}}
	require.NoError(t, s.WriteArtifact("policy_evaluation", outputs))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "policy_evaluation", "policy_evaluation_output.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	structure, ok := decoded["policy_structure"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SMR", structure["policy_code"])
}

func TestWriteArtifact_OverwriteIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "run-2")
	require.NoError(t, err)

	require.NoError(t, s.WriteArtifact("validation", map[string]any{"attempt": 1}))
	require.NoError(t, s.WriteArtifact("validation", map[string]any{"attempt": 2}))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "validation", "validation_output.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["attempt"])
}

func TestWriteSummary(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "run-3")
	require.NoError(t, err)

	require.NoError(t, s.WriteSummary("workflow_summary.txt", "all good\n"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "workflow_summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "all good\n", string(data))
}
