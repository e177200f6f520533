package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, 8000, cfg.API.Port)
	assert.Equal(t, 0.7, cfg.AzureOpenAI.Temperature)
	assert.Equal(t, 2000, cfg.AzureOpenAI.MaxTokens)
	assert.Equal(t, 1536, cfg.Embeddings.Dimension)
	assert.Equal(t, "azure", cfg.LLM.Provider)
	assert.Equal(t, "whisper", cfg.STT.Provider)
	assert.Equal(t, []string{"mp3", "wav", "m4a", "ogg"}, cfg.Audio.SupportedFormats)
	assert.Equal(t, 25, cfg.Audio.MaxFileSizeMB)
	assert.Equal(t, "l2", cfg.VectorDB.MetricType)
	assert.Equal(t, 128, cfg.VectorDB.IndexLists)
	assert.Equal(t, "simple", cfg.Chat.Mode)
	assert.Equal(t, 3, cfg.Chat.ContextTopK)
	assert.Equal(t, 3, cfg.Chat.MaxIterations)
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
api:
  port: 9000
vector_db:
  metric_type: cosine
chat:
  mode: agent
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "cosine", cfg.VectorDB.MetricType)
	assert.Equal(t, "agent", cfg.Chat.Mode)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "vector_db:\n  host: from-yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("VECTOR_DB_HOST", "from-env")
	t.Setenv("PORT", "7070")
	t.Setenv("LLM_PROVIDER", "vertex")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.VectorDB.Host)
	assert.Equal(t, 7070, cfg.API.Port)
	assert.Equal(t, "vertex", cfg.LLM.Provider)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	cfg.VectorDB.Password = "secret"

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=sales_transcripts")
	assert.Contains(t, dsn, "password=secret")
}

func TestDSNPostgresURIOverride(t *testing.T) {
	t.Setenv("POSTGRES_URI", "postgres://u:p@db:5432/x")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
}

func TestPromptStoreRender(t *testing.T) {
	s := NewPromptStore(map[string]string{
		"greeting": "Hello {name}, about {topic}.",
	})

	out := s.Render("greeting", map[string]string{"name": "Ada", "topic": "pricing"})
	assert.Equal(t, "Hello Ada, about pricing.", out)
}

func TestPromptStoreUnknownName(t *testing.T) {
	s := NewPromptStore(map[string]string{})

	assert.Empty(t, s.Get("missing"))
	assert.Empty(t, s.Render("missing", map[string]string{"a": "b"}))
}

func TestLoadPromptsFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "system_prompt: |\n  You are an analyst.\nanalysis_prompt: |\n  Analyze {transcript}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts.yaml"), []byte(yaml), 0o644))

	s, err := LoadPrompts(dir)
	require.NoError(t, err)

	assert.Contains(t, s.Get("system_prompt"), "You are an analyst.")
	assert.Contains(t, s.Render("analysis_prompt", map[string]string{"transcript": "hi"}), "Analyze hi")
}
