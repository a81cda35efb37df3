package handler

import (
	"net/http"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, examHandler *ExamHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(logger.GinLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.SetHTMLTemplate(loadTemplates())
	router.GET("/", examHandler.Index)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/catalog", examHandler.Catalog)
		api.GET("/catalog/topics", examHandler.Topics)
		api.POST("/diagram/preview", examHandler.PreviewDiagram)

		session := api.Group("/session")
		{
			session.POST("", examHandler.CreateSession)
			session.GET("/list", examHandler.ListSessions)
			session.GET("/:session_id", examHandler.GetSession)
			session.DELETE("/:session_id", examHandler.DeleteSession)
			session.PUT("/:session_id/selection", examHandler.UpdateSelection)
			session.POST("/:session_id/generate", examHandler.Generate)
			session.POST("/:session_id/generate/stream", examHandler.StreamGenerate)
			session.POST("/:session_id/clear", examHandler.ClearQuestions)
			session.GET("/:session_id/questions", examHandler.GetQuestions)
			session.GET("/:session_id/questions/:question/diagrams/:diagram", examHandler.GetDiagram)
			session.GET("/:session_id/export", examHandler.Export)
		}
	}

	return router
}
