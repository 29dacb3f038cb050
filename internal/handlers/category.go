package handlers

import (
	"net/http"

	"trivia-backend/internal/models"
	"trivia-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	questionService *services.QuestionService
}

func NewCategoryHandler(categoryService *services.CategoryService, questionService *services.QuestionService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, questionService: questionService}
}

type CategoriesResponse struct {
	Success    bool            `json:"success" example:"true"`
	Categories map[uint]string `json:"categories"`
}

// ListCategories godoc
// @Summary      List categories
// @Description  All categories as an id to type map
// @Tags         categories
// @Produce      json
// @Success      200 {object} CategoriesResponse
// @Failure      404 {object} ErrorResponse
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(categories) == 0 {
		abortWithStatus(c, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Success:    true,
		Categories: models.CategoryMap(categories),
	})
}

// ListCategoryQuestions godoc
// @Summary      List questions of a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int true  "Category ID"
// @Param        page query int false "Page number" default(1)
// @Success      200 {object} QuestionsResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /categories/{id}/questions [get]
func (h *CategoryHandler) ListCategoryQuestions(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		abortWithStatus(c, http.StatusNotFound)
		return
	}
	page, ok := parsePage(c)
	if !ok {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}

	cat, err := h.categoryService.GetCategory(categoryID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := h.questionService.ListByCategory(cat.ID, page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuestionsResponse{
		Success:         true,
		Questions:       result.Questions,
		TotalQuestions:  result.Total,
		CurrentCategory: &cat.ID,
	})
}
