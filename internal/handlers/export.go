package handlers

import (
	"encoding/csv"
	"io"
	"log"
	"net/http"
	"strconv"

	"trivia-backend/internal/database"
	"trivia-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

var csvHeader = []string{"id", "category", "category_type", "question", "answer", "difficulty"}

// ExportQuestions godoc
// @Summary      Export the question bank
// @Description  All categories and questions, as a seed YAML document or CSV
// @Tags         questions
// @Produce      application/x-yaml
// @Produce      text/csv
// @Param        format query string false "yaml or csv" default(yaml)
// @Success      200 {string} string
// @Failure      400 {object} ErrorResponse
// @Router       /questions/export [get]
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "yaml")
	if format != "yaml" && format != "csv" {
		abortWithStatus(c, http.StatusBadRequest)
		return
	}

	categories, err := h.categoryService.ListCategories()
	if err != nil {
		abortWithError(c, err)
		return
	}
	questions, err := h.questionService.AllQuestions()
	if err != nil {
		abortWithError(c, err)
		return
	}

	if format == "csv" {
		names := make(map[uint]string, len(categories))
		for _, cat := range categories {
			names[cat.ID] = cat.Type
		}

		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="trivia.csv"`)
		c.Status(http.StatusOK)

		if err := writeCSV(c.Writer, questions, names); err != nil {
			// headers are already sent, the client sees a truncated file
			log.Printf("export questions as csv: %v", err)
		}
		return
	}

	var seed database.SeedData
	for _, cat := range categories {
		seed.Categories = append(seed.Categories, database.SeedCategory{ID: cat.ID, Type: cat.Type})
	}
	for _, q := range questions {
		seed.Questions = append(seed.Questions, database.SeedQuestion{
			Question:   q.Question,
			Answer:     q.Answer,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		})
	}

	out, err := yaml.Marshal(seed)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trivia.yaml"`)
	c.Data(http.StatusOK, "application/x-yaml; charset=utf-8", out)
}

func writeCSV(out io.Writer, questions []models.Question, categoryNames map[uint]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, q := range questions {
		err := w.Write([]string{
			strconv.FormatUint(uint64(q.ID), 10),
			strconv.FormatUint(uint64(q.Category), 10),
			categoryNames[q.Category],
			q.Question,
			q.Answer,
			strconv.Itoa(q.Difficulty),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
