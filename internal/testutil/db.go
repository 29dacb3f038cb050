package testutil

import (
	"testing"

	"trivia-backend/internal/config"
	"trivia-backend/internal/database"
	"trivia-backend/internal/models"

	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database closed at test cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixture is the dataset loaded by Seed: three categories, questions spread
// over the first two, none in the third.
var Fixture = database.SeedData{
	Categories: []database.SeedCategory{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
	},
	Questions: []database.SeedQuestion{
		{Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		{Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		{Question: "Hematology is a branch of medicine involving the study of what?", Answer: "Blood", Category: 1, Difficulty: 4},
		{Question: "La Giaconda is better known as what?", Answer: "Mona Lisa", Category: 2, Difficulty: 3},
		{Question: "How many paintings did Van Gogh sell in his lifetime?", Answer: "One", Category: 2, Difficulty: 4},
	},
}

// Seed loads Fixture into db.
func Seed(t testing.TB, db *gorm.DB) {
	t.Helper()
	if _, err := Fixture.Apply(db); err != nil {
		t.Fatalf("seed test db: %v", err)
	}
}

// AddQuestions inserts n generated questions in category.
func AddQuestions(t testing.TB, db *gorm.DB, category uint, n int) []models.Question {
	t.Helper()
	out := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		q := models.Question{
			Question:   "Generated question",
			Answer:     "Generated answer",
			Category:   category,
			Difficulty: 1 + i%models.MaxDifficulty,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("insert question: %v", err)
		}
		out = append(out, q)
	}
	return out
}

// QuestionIDs returns the ids of all questions, optionally limited to one
// category (0 means all).
func QuestionIDs(t testing.TB, db *gorm.DB, category uint) []uint {
	t.Helper()
	var ids []uint
	query := db.Model(&models.Question{}).Order("id ASC")
	if category != 0 {
		query = query.Where("category = ?", category)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		t.Fatalf("pluck ids: %v", err)
	}
	return ids
}
