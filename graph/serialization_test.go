package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_JSONRoundTrip(t *testing.T) {
	t.Parallel()
	def := twoNodeDef(OrchestrationConcurrent)
	def.Config.MaxConcurrentExecutions = 3

	data, err := def.ToJSON()
	require.NoError(t, err)

	parsed, err := FromJSON([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, def.ID, parsed.ID)
	assert.Equal(t, OrchestrationConcurrent, parsed.Orchestration)
	assert.Equal(t, 3, parsed.Config.MaxConcurrentExecutions)
	assert.Len(t, parsed.Nodes, 2)
	assert.Len(t, parsed.Connections, 1)
}

func TestLoadDefinitionFile_YAML(t *testing.T) {
	t.Parallel()
	def := twoNodeDef(OrchestrationSequential)
	data, err := def.ToYAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	parsed, err := LoadDefinitionFile(path)
	require.NoError(t, err)
	assert.Equal(t, def.ID, parsed.ID)
	assert.NoError(t, Validate(parsed))
}

func TestLoadDefinitionFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "wf.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := LoadDefinitionFile(path)
	assert.Error(t, err)
}

func TestLoadDefinitionFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadDefinitionFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
