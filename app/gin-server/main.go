package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/analyzer"
	"github.com/Sindhurirompikuntla/Capstone/internal/api/handlers"
	"github.com/Sindhurirompikuntla/Capstone/internal/api/middleware"
	"github.com/Sindhurirompikuntla/Capstone/internal/api/routes"
	"github.com/Sindhurirompikuntla/Capstone/internal/cache"
	"github.com/Sindhurirompikuntla/Capstone/internal/chunker"
	"github.com/Sindhurirompikuntla/Capstone/internal/logger"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/stt"
	pgrepo "github.com/Sindhurirompikuntla/Capstone/internal/repositories/postgres"
	"github.com/Sindhurirompikuntla/Capstone/internal/services"
	"github.com/Sindhurirompikuntla/Capstone/internal/storage"
)

func main() {
	log := logger.New()
	ctx := context.Background()

	cfg, err := config.Load("config")
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	prompts, err := config.LoadPrompts("config")
	if err != nil {
		log.WithError(err).Fatal("failed to load prompts")
	}

	// Completion + embedding backends. Embeddings always run through Azure
	// OpenAI, even when Vertex serves completions.
	azure, err := llm.NewAzureOpenAI(llm.AzureOpenAIConfig{
		Endpoint:            cfg.AzureOpenAI.Endpoint,
		APIKey:              cfg.AzureOpenAI.APIKey,
		APIVersion:          cfg.AzureOpenAI.APIVersion,
		DeploymentName:      cfg.AzureOpenAI.DeploymentName,
		EmbeddingDeployment: cfg.Embeddings.DeploymentName,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize azure openai")
	}
	defer azure.Close()

	var provider llm.Provider = azure
	if cfg.LLM.Provider == "vertex" {
		vertex, verr := llm.NewVertexGemini(ctx, cfg.Vertex.ProjectID, cfg.Vertex.Location, cfg.Vertex.Model)
		if verr != nil {
			log.WithError(verr).Fatal("failed to initialize vertex gemini")
		}
		defer vertex.Close()
		provider = vertex
	}
	log.WithField("provider", cfg.LLM.Provider).Info("llm backend ready")

	// Vector database. An unreachable database disables storage, search and
	// retrieval chat context but the API still serves analysis.
	var repo pgrepo.TranscriptRepository
	if err := config.InitPostgres(cfg); err != nil {
		log.WithError(err).Warn("vector database unavailable, store and search disabled")
	} else {
		repo, err = pgrepo.NewTranscriptRepo(config.PostgresDB, cfg.VectorDB.MetricType)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize transcript repository")
		}
		log.Info("vector database connected")
	}

	var transcriptCache cache.TranscriptCache
	if ok, err := config.InitRedis(); err != nil {
		log.WithError(err).Warn("redis unavailable, transcript cache disabled")
	} else if ok {
		transcriptCache = cache.NewRedisTranscriptCache(config.RedisClient)
		log.Info("redis cache connected")
	}

	// Transcription backend. Missing credentials leave audio analysis off.
	var sttProvider stt.Provider
	switch cfg.STT.Provider {
	case "google":
		gs, gerr := stt.NewGoogleSpeech(ctx, cfg.STT.Language)
		if gerr != nil {
			log.WithError(gerr).Warn("google speech unavailable, audio analysis disabled")
		} else {
			defer gs.Close()
			sttProvider = gs
		}
	default:
		w, werr := stt.NewWhisper(stt.WhisperConfig{
			Endpoint:         cfg.AzureOpenAI.Endpoint,
			APIKey:           cfg.AzureOpenAI.APIKey,
			APIVersion:       cfg.AzureOpenAI.APIVersion,
			Deployment:       cfg.STT.WhisperDeployment,
			SupportedFormats: cfg.Audio.SupportedFormats,
			MaxFileSizeMB:    cfg.Audio.MaxFileSizeMB,
		})
		if werr != nil {
			log.WithError(werr).Warn("whisper unavailable, audio analysis disabled")
		} else {
			sttProvider = w
		}
	}

	var archive storage.Uploader
	if cfg.Audio.ArchiveBucket != "" {
		gcsUploader, gerr := storage.NewGCSUploader(ctx, cfg.Audio.ArchiveBucket)
		if gerr != nil {
			log.WithError(gerr).Warn("audio archive bucket unavailable")
		} else {
			defer gcsUploader.Close()
			archive = gcsUploader
		}
	}

	store := services.NewVectorStoreService(repo, azure, transcriptCache, log)
	chunks := chunker.New(log)
	transcriptAnalyzer := analyzer.New(provider, prompts, log, cfg.AzureOpenAI.Temperature, cfg.AzureOpenAI.MaxTokens)
	analysisSvc := services.NewAnalysisService(transcriptAnalyzer, chunks, store, sttProvider, archive, log)

	var chat services.ChatAgent
	if cfg.Chat.Mode == "agent" {
		chat = services.NewAgentChatService(provider, store, prompts, log, cfg.Chat.ContextTopK, cfg.Chat.MaxIterations)
	} else {
		chat = services.NewChatService(provider, store, prompts, log, cfg.Chat.ContextTopK)
	}
	helper := services.NewSalesHelperService(provider, store, prompts, log, cfg.Chat.ContextTopK)

	sttName := cfg.STT.Provider
	if sttProvider == nil {
		sttName = "disabled"
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Health:   handlers.NewHealthHandler(cfg.API.Version, cfg.LLM.Provider, sttName, cfg.Chat.Mode, store.Enabled),
		Analysis: handlers.NewAnalysisHandler(analysisSvc),
		Search:   handlers.NewSearchHandler(store),
		Chat:     handlers.NewChatHandler(chat, helper),
	})

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	log.WithField("addr", addr).Info("starting server")
	if err := r.Run(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
