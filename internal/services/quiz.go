package services

import (
	"math/rand"
	"strings"

	"trivia-backend/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db   *gorm.DB
	intn func(n int) int
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db, intn: rand.Intn}
}

// WithRandom replaces the source used to pick among eligible questions.
// intn must return a value in [0, n).
func (s *QuizService) WithRandom(intn func(n int) int) *QuizService {
	s.intn = intn
	return s
}

// QuizCategory selects the pool a quiz draws from. The web client sends
// {type: "click", id: 0} for "All".
type QuizCategory struct {
	ID   uint   `json:"id"`
	Type string `json:"type"`
}

func (c QuizCategory) All() bool {
	t := strings.ToLower(strings.TrimSpace(c.Type))
	return c.ID == 0 || t == "click" || t == "all"
}

// NextQuestion returns a uniformly random question from the selected category
// whose id is not in previous. It returns nil, nil once every eligible
// question has been served.
func (s *QuizService) NextQuestion(category QuizCategory, previous []uint) (*models.Question, error) {
	query := s.db.Model(&models.Question{})
	if !category.All() {
		query = query.Where("category = ?", category.ID)
	}

	var candidates []models.Question
	if err := query.Order("id ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	return pickRandom(excludeServed(candidates, previous), s.intn), nil
}

// excludeServed drops questions whose id is in previous. sqlite caps bound
// parameters per statement, so previous never goes into the query.
func excludeServed(candidates []models.Question, previous []uint) []models.Question {
	if len(previous) == 0 {
		return candidates
	}
	served := make(map[uint]struct{}, len(previous))
	for _, id := range previous {
		served[id] = struct{}{}
	}
	eligible := candidates[:0]
	for _, q := range candidates {
		if _, ok := served[q.ID]; !ok {
			eligible = append(eligible, q)
		}
	}
	return eligible
}

func pickRandom(eligible []models.Question, intn func(n int) int) *models.Question {
	if len(eligible) == 0 {
		return nil
	}
	q := eligible[intn(len(eligible))]
	return &q
}
