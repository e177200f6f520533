package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Sindhurirompikuntla/Capstone/internal/api/handlers"
	"github.com/Sindhurirompikuntla/Capstone/internal/api/middleware"
)

type Deps struct {
	Health   *handlers.HealthHandler
	Analysis *handlers.AnalysisHandler
	Search   *handlers.SearchHandler
	Chat     *handlers.ChatHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.Default())

	r.GET("/", d.Health.Check)
	r.GET("/health", d.Health.Check)

	// Everything else sits behind the (optional) bearer check.
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.POST("/analyze/text", d.Analysis.AnalyzeText)
	auth.POST("/analyze/audio", d.Analysis.AnalyzeAudio)
	auth.POST("/analyze/file", d.Analysis.AnalyzeFile)

	auth.POST("/search", d.Search.Search)
	auth.GET("/transcript/:transcript_id", d.Search.GetTranscript)

	auth.POST("/chat", d.Chat.Chat)
	auth.POST("/chat/clear", d.Chat.ClearSession)
	auth.POST("/sales-helper", d.Chat.SalesHelper)
}
