package handlers

import (
	"net/http"

	"trivia-backend/internal/models"
	"trivia-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type QuizRequest struct {
	QuizCategory      *services.QuizCategory `json:"quiz_category" binding:"required"`
	PreviousQuestions []uint                 `json:"previous_questions"`
}

// QuizResponse carries a null question once the pool is exhausted.
type QuizResponse struct {
	Success  bool             `json:"success" example:"true"`
	Question *models.Question `json:"question"`
}

// NextQuestion godoc
// @Summary      Next quiz question
// @Description  A random question from the chosen category (id 0 or type "click" for all) not in previous_questions
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Param        request body QuizRequest true "Quiz state"
// @Success      200 {object} QuizResponse
// @Failure      400 {object} ErrorResponse
// @Router       /quizzes [post]
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}

	question, err := h.quizService.NextQuestion(*req.QuizCategory, req.PreviousQuestions)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuizResponse{Success: true, Question: question})
}
