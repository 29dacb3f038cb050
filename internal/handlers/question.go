package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"trivia-backend/internal/models"
	"trivia-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	categoryService *services.CategoryService
}

func NewQuestionHandler(questionService *services.QuestionService, categoryService *services.CategoryService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, categoryService: categoryService}
}

type QuestionsResponse struct {
	Success         bool              `json:"success" example:"true"`
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int64             `json:"total_questions" example:"19"`
	CurrentCategory *uint             `json:"current_category"`
}

// ListQuestionsResponse always carries the category map, empty or not.
type ListQuestionsResponse struct {
	Success         bool              `json:"success" example:"true"`
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int64             `json:"total_questions" example:"19"`
	CurrentCategory *uint             `json:"current_category"`
	Categories      map[uint]string   `json:"categories"`
}

type CreateQuestionRequest struct {
	Question   string  `json:"question" example:"Who discovered penicillin?"`
	Answer     string  `json:"answer" example:"Alexander Fleming"`
	Category   FlexInt `json:"category" swaggertype:"integer" example:"1"`
	Difficulty FlexInt `json:"difficulty" swaggertype:"integer" example:"3"`
}

type CreateQuestionResponse struct {
	Success   bool            `json:"success" example:"true"`
	Questions models.Question `json:"questions"`
}

type DeleteQuestionResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      uint   `json:"id" example:"15"`
	Message string `json:"message" example:"Question deleted successfully"`
}

type SearchRequest struct {
	SearchTerm string `json:"searchTerm" example:"title"`
}

// ListQuestions godoc
// @Summary      List questions
// @Description  One page of questions ordered by id, with the category map
// @Tags         questions
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Success      200 {object} ListQuestionsResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}

	result, err := h.questionService.ListQuestions(page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories()
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListQuestionsResponse{
		Success:        true,
		Questions:      result.Questions,
		TotalQuestions: result.Total,
		Categories:     models.CategoryMap(categories),
	})
}

// CreateQuestion godoc
// @Summary      Create a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      200 {object} CreateQuestionResponse
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}
	if req.Category < 0 {
		abortWithStatus(c, http.StatusUnprocessableEntity)
		return
	}

	question, err := h.questionService.CreateQuestion(services.QuestionInput{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   uint(req.Category),
		Difficulty: int(req.Difficulty),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateQuestionResponse{Success: true, Questions: *question})
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         questions
// @Produce      json
// @Param        id path int true "Question ID"
// @Success      200 {object} DeleteQuestionResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		abortWithStatus(c, http.StatusNotFound)
		return
	}

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			abortWithStatus(c, http.StatusNotFound)
			return
		}
		log.Printf("delete question %d: %v", questionID, err)
		abortWithStatus(c, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusOK, DeleteQuestionResponse{
		Success: true,
		ID:      questionID,
		Message: "Question deleted successfully",
	})
}

// SearchQuestions godoc
// @Summary      Search questions
// @Description  Case-insensitive substring match on question text
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search term"
// @Success      200 {object} QuestionsResponse
// @Failure      400 {object} ErrorResponse
// @Router       /questions/search [post]
func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SearchTerm) == "" {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}

	questions, err := h.questionService.SearchQuestions(req.SearchTerm)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuestionsResponse{
		Success:        true,
		Questions:      questions,
		TotalQuestions: int64(len(questions)),
	})
}
