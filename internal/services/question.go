package services

import (
	"errors"
	"fmt"
	"strings"

	"trivia-backend/internal/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db      *gorm.DB
	perPage int
}

func NewQuestionService(db *gorm.DB, perPage int) *QuestionService {
	if perPage <= 0 {
		perPage = 10
	}
	return &QuestionService{db: db, perPage: perPage}
}

type QuestionPage struct {
	Questions []models.Question
	Total     int64
}

type QuestionInput struct {
	Question   string
	Answer     string
	Category   uint
	Difficulty int
}

// ListQuestions returns one page of all questions ordered by id. A page past
// the end is ErrNotFound.
func (s *QuestionService) ListQuestions(page int) (*QuestionPage, error) {
	return s.paginate(s.db.Model(&models.Question{}), page, true)
}

// ListByCategory pages the questions of one category. A category without
// questions yields an empty first page.
func (s *QuestionService) ListByCategory(categoryID uint, page int) (*QuestionPage, error) {
	return s.paginate(s.db.Model(&models.Question{}).Where("category = ?", categoryID), page, page > 1)
}

func (s *QuestionService) paginate(query *gorm.DB, page int, emptyIsMissing bool) (*QuestionPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page %d: %w", page, ErrInvalidInput)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	questions := []models.Question{}
	err := query.Session(&gorm.Session{}).
		Order("id ASC").
		Offset((page - 1) * s.perPage).
		Limit(s.perPage).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	if len(questions) == 0 && emptyIsMissing {
		return nil, fmt.Errorf("page %d: %w", page, ErrNotFound)
	}
	return &QuestionPage{Questions: questions, Total: total}, nil
}

// AllQuestions returns every question grouped by category.
func (s *QuestionService) AllQuestions() ([]models.Question, error) {
	questions := []models.Question{}
	if err := s.db.Order("category ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionService) CreateQuestion(input QuestionInput) (*models.Question, error) {
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	question := models.Question{
		Question:   strings.TrimSpace(input.Question),
		Answer:     strings.TrimSpace(input.Answer),
		Category:   input.Category,
		Difficulty: input.Difficulty,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) DeleteQuestion(questionID uint) error {
	var question models.Question
	if err := s.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return err
	}
	return s.db.Delete(&question).Error
}

// SearchQuestions matches term case-insensitively anywhere in the question
// text. LIKE wildcards in term are matched literally.
func (s *QuestionService) SearchQuestions(term string) ([]models.Question, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("empty search term: %w", ErrInvalidInput)
	}

	query := s.db.Model(&models.Question{})
	if s.db.Dialector.Name() == "postgres" {
		query = query.Where(`question ILIKE ? ESCAPE '\'`, "%"+escapeLike(term)+"%")
	} else {
		// casefold is registered by the database package
		query = query.Where(`casefold(question) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}

	questions := []models.Question{}
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func validateQuestion(input QuestionInput) error {
	if strings.TrimSpace(input.Question) == "" {
		return fmt.Errorf("question text is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Answer) == "" {
		return fmt.Errorf("answer text is required: %w", ErrInvalidInput)
	}
	if input.Category == 0 {
		return fmt.Errorf("category is required: %w", ErrInvalidInput)
	}
	if input.Difficulty < models.MinDifficulty || input.Difficulty > models.MaxDifficulty {
		return fmt.Errorf("difficulty must be between %d and %d: %w", models.MinDifficulty, models.MaxDifficulty, ErrInvalidInput)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
