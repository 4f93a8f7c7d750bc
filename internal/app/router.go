package app

import (
	"study_easy_backend/pkg/monitoring"

	_ "study_easy_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	// 系统端点
	router.GET("/health", c.health.Check)
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		subjects := api.Group("/subjects")
		{
			subjects.POST("", c.subject.Create)
			subjects.GET("", c.subject.List)
			subjects.GET("/:subjectId", c.subject.Get)
			subjects.DELETE("/:subjectId", c.subject.Delete)

			subjects.POST("/:subjectId/lessons", c.lesson.Create)
			subjects.GET("/:subjectId/lessons", c.lesson.ListBySubject)
		}

		lessons := api.Group("/lessons")
		{
			lessons.GET("/:lessonId", c.lesson.Get)
			lessons.DELETE("/:lessonId", c.lesson.Delete)

			lessons.GET("/:lessonId/chapters", c.chapter.ListByLesson)
			lessons.POST("/:lessonId/chapters/from-text", c.chapter.CreateFromText)
			lessons.POST("/:lessonId/chapters/from-audio", c.chapter.CreateFromAudioUpload)
			lessons.POST("/:lessonId/chapters/from-audio-url", c.chapter.CreateFromAudioURL)
		}

		chapters := api.Group("/chapters")
		{
			chapters.GET("/:id", c.chapter.Get)
			chapters.DELETE("/:id", c.chapter.Delete)
			chapters.GET("/:id/status", c.chapter.Status)
			chapters.GET("/:id/flashcards", c.chapter.Flashcards)
			chapters.GET("/:id/quiz", c.chapter.Quiz)
			chapters.POST("/:id/reprocess", c.chapter.Reprocess)

			chapters.GET("/:id/chat", c.chat.History)
			chapters.POST("/:id/chat", c.chat.Send)
		}
	}
}
