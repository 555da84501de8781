package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler      *QuizHandler
	attemptHandler   *AttemptHandler
	analyticsHandler *AnalyticsHandler
	lessonHandler    *LessonHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), logger),
		attemptHandler:   NewAttemptHandler(serviceManager.Attempt(), logger),
		analyticsHandler: NewAnalyticsHandler(serviceManager.Analytics(), logger),
		lessonHandler:    NewLessonHandler(serviceManager.Lesson(), logger),
	}
}

// SetupRoutes sets up all API routes. authMiddleware guards everything under
// /api/v1; admin routes additionally rely on the services' role checks.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1", authMiddleware)
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/attempt", hm.attemptHandler.SubmitAttempt)
			quizzes.GET("/:id/attempts", hm.attemptHandler.GetAttemptHistory)
		}

		v1.GET("/me/progress", hm.attemptHandler.GetMyProgress)
		v1.GET("/courses/:id", hm.lessonHandler.GetCourse)

		lessons := v1.Group("/lessons")
		{
			lessons.GET("/:id", hm.lessonHandler.GetLesson)
			lessons.GET("/:id/navigation", hm.lessonHandler.GetNavigation)
			lessons.POST("/:id/complete", hm.lessonHandler.CompleteLesson)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/quizzes", hm.quizHandler.ListQuizzes)
			admin.POST("/quizzes", hm.quizHandler.CreateQuiz)
			admin.GET("/assessment-stats", hm.analyticsHandler.GetAssessmentStats)
			admin.GET("/assessment-stats/export", hm.analyticsHandler.ExportAssessmentStats)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "training-service",
	})
}
