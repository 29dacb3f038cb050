package router

import (
	"trivia-backend/internal/config"
	"trivia-backend/internal/handlers"
	"trivia-backend/internal/middleware"
	"trivia-backend/internal/services"

	_ "trivia-backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires services and handlers onto a fresh engine.
func New(cfg *config.Config, db *gorm.DB) *gin.Engine {
	return NewWithQuiz(cfg, db, services.NewQuizService(db))
}

// NewWithQuiz is New with a caller supplied quiz service, so tests can pin
// the random source.
func NewWithQuiz(cfg *config.Config, db *gorm.DB, quizService *services.QuizService) *gin.Engine {
	categoryService := services.NewCategoryService(db)
	questionService := services.NewQuestionService(db, cfg.QuestionsPerPage)

	categoryHandler := handlers.NewCategoryHandler(categoryService, questionService)
	questionHandler := handlers.NewQuestionHandler(questionService, categoryService)
	quizHandler := handlers.NewQuizHandler(quizService)
	healthHandler := handlers.NewHealthHandler(db)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.CustomRecovery(handlers.Recovery))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", healthHandler.Health)

	categories := r.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/:id/questions", categoryHandler.ListCategoryQuestions)
	}

	questions := r.Group("/questions")
	{
		questions.GET("", questionHandler.ListQuestions)
		questions.POST("", questionHandler.CreateQuestion)
		questions.POST("/search", questionHandler.SearchQuestions)
		questions.GET("/export", questionHandler.ExportQuestions)
		questions.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	r.POST("/quizzes", quizHandler.NextQuestion)

	return r
}
