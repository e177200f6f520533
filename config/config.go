package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type AzureOpenAIConfig struct {
	Endpoint       string  `yaml:"endpoint"`
	APIKey         string  `yaml:"api_key"`
	APIVersion     string  `yaml:"api_version"`
	DeploymentName string  `yaml:"deployment_name"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

type EmbeddingsConfig struct {
	DeploymentName string `yaml:"deployment_name"`
	Dimension      int    `yaml:"dimension"`
}

type LLMConfig struct {
	// Provider selects the completion backend: "azure" (default) or "vertex".
	Provider string `yaml:"provider"`
}

type VertexConfig struct {
	ProjectID string `yaml:"project_id"`
	Location  string `yaml:"location"`
	Model     string `yaml:"model"`
}

type STTConfig struct {
	// Provider selects the transcription backend: "whisper" (default) or "google".
	Provider          string `yaml:"provider"`
	WhisperDeployment string `yaml:"whisper_deployment"`
	Language          string `yaml:"language"`
}

type AudioConfig struct {
	SupportedFormats []string `yaml:"supported_formats"`
	MaxFileSizeMB    int      `yaml:"max_file_size_mb"`
	ArchiveBucket    string   `yaml:"archive_bucket"`
}

type VectorDBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	// MetricType is the pgvector distance metric: "l2", "cosine" or "ip".
	MetricType string `yaml:"metric_type"`
	IndexLists int    `yaml:"index_lists"`
}

type ChatConfig struct {
	// Mode selects the chat design: "simple" retrieval-then-prompt (default)
	// or "agent" for the bounded tool-calling loop.
	Mode          string `yaml:"mode"`
	ContextTopK   int    `yaml:"context_top_k"`
	MaxIterations int    `yaml:"max_iterations"`
}

type AppConfig struct {
	API         APIConfig         `yaml:"api"`
	AzureOpenAI AzureOpenAIConfig `yaml:"azure_openai"`
	Embeddings  EmbeddingsConfig  `yaml:"embeddings"`
	LLM         LLMConfig         `yaml:"llm"`
	Vertex      VertexConfig      `yaml:"vertex"`
	STT         STTConfig         `yaml:"stt"`
	Audio       AudioConfig       `yaml:"audio"`
	VectorDB    VectorDBConfig    `yaml:"vector_db"`
	Chat        ChatConfig        `yaml:"chat"`
}

// Load reads config.yaml from dir, merges environment overrides and applies
// defaults. A missing config file is not an error; env vars alone can carry a
// deployment.
func Load(dir string) (*AppConfig, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &AppConfig{}

	raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse config.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read config.yaml: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr(&c.AzureOpenAI.Endpoint, "AZURE_OPENAI_ENDPOINT")
	setStr(&c.AzureOpenAI.APIKey, "AZURE_OPENAI_API_KEY")
	setStr(&c.AzureOpenAI.APIVersion, "AZURE_OPENAI_API_VERSION")
	setStr(&c.AzureOpenAI.DeploymentName, "AZURE_OPENAI_DEPLOYMENT_NAME")
	setStr(&c.Embeddings.DeploymentName, "AZURE_OPENAI_EMBEDDING_DEPLOYMENT")

	setStr(&c.VectorDB.Host, "VECTOR_DB_HOST")
	setInt(&c.VectorDB.Port, "VECTOR_DB_PORT")
	setStr(&c.VectorDB.User, "VECTOR_DB_USER")
	setStr(&c.VectorDB.Password, "VECTOR_DB_PASSWORD")
	setStr(&c.VectorDB.Database, "VECTOR_DB_NAME")

	setStr(&c.LLM.Provider, "LLM_PROVIDER")
	setStr(&c.Vertex.ProjectID, "VERTEX_PROJECT_ID")
	setStr(&c.Vertex.Location, "VERTEX_LOCATION")

	setStr(&c.STT.Provider, "STT_PROVIDER")
	setStr(&c.Audio.ArchiveBucket, "AUDIO_ARCHIVE_BUCKET")

	setInt(&c.API.Port, "PORT")
}

func (c *AppConfig) applyDefaults() {
	if c.API.Host == "" {
		c.API.Host = "0.0.0.0"
	}
	if c.API.Port == 0 {
		c.API.Port = 8000
	}
	if c.API.Title == "" {
		c.API.Title = "Sales Transcript Analysis API"
	}
	if c.API.Version == "" {
		c.API.Version = "1.0.0"
	}

	if c.AzureOpenAI.Temperature == 0 {
		c.AzureOpenAI.Temperature = 0.7
	}
	if c.AzureOpenAI.MaxTokens == 0 {
		c.AzureOpenAI.MaxTokens = 2000
	}
	if c.Embeddings.DeploymentName == "" {
		c.Embeddings.DeploymentName = "text-embedding-ada-002"
	}
	if c.Embeddings.Dimension == 0 {
		c.Embeddings.Dimension = 1536
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "azure"
	}
	if c.Vertex.Location == "" {
		c.Vertex.Location = "us-central1"
	}
	if c.Vertex.Model == "" {
		c.Vertex.Model = "gemini-1.5-flash"
	}

	if c.STT.Provider == "" {
		c.STT.Provider = "whisper"
	}
	if c.STT.WhisperDeployment == "" {
		c.STT.WhisperDeployment = "whisper-1"
	}
	if c.STT.Language == "" {
		c.STT.Language = "en-US"
	}

	if len(c.Audio.SupportedFormats) == 0 {
		c.Audio.SupportedFormats = []string{"mp3", "wav", "m4a", "ogg"}
	}
	if c.Audio.MaxFileSizeMB == 0 {
		c.Audio.MaxFileSizeMB = 25
	}

	if c.VectorDB.Host == "" {
		c.VectorDB.Host = "localhost"
	}
	if c.VectorDB.Port == 0 {
		c.VectorDB.Port = 5432
	}
	if c.VectorDB.User == "" {
		c.VectorDB.User = "postgres"
	}
	if c.VectorDB.Database == "" {
		c.VectorDB.Database = "sales_transcripts"
	}
	if c.VectorDB.SSLMode == "" {
		c.VectorDB.SSLMode = "disable"
	}
	if c.VectorDB.MetricType == "" {
		c.VectorDB.MetricType = "l2"
	}
	if c.VectorDB.IndexLists == 0 {
		c.VectorDB.IndexLists = 128
	}

	if c.Chat.Mode == "" {
		c.Chat.Mode = "simple"
	}
	if c.Chat.ContextTopK == 0 {
		c.Chat.ContextTopK = 3
	}
	if c.Chat.MaxIterations == 0 {
		c.Chat.MaxIterations = 3
	}
}

// DSN builds the Postgres connection string. POSTGRES_URI wins when set.
func (c *AppConfig) DSN() string {
	if uri := os.Getenv("POSTGRES_URI"); uri != "" {
		return uri
	}
	parts := []string{
		"host=" + c.VectorDB.Host,
		"port=" + strconv.Itoa(c.VectorDB.Port),
		"user=" + c.VectorDB.User,
		"dbname=" + c.VectorDB.Database,
		"sslmode=" + c.VectorDB.SSLMode,
	}
	if c.VectorDB.Password != "" {
		parts = append(parts, "password="+c.VectorDB.Password)
	}
	return strings.Join(parts, " ")
}
