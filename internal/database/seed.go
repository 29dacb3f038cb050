package database

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"trivia-backend/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type SeedData struct {
	Categories []SeedCategory `yaml:"categories"`
	Questions  []SeedQuestion `yaml:"questions"`
}

type SeedCategory struct {
	ID   uint   `yaml:"id"`
	Type string `yaml:"type"`
}

type SeedQuestion struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Category   uint   `yaml:"category"`
	Difficulty int    `yaml:"difficulty"`
}

// ParseSeed decodes a single strict YAML document.
func ParseSeed(data []byte) (SeedData, error) {
	var seed SeedData
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return SeedData{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return SeedData{}, fmt.Errorf("parse seed: multiple YAML documents are not supported")
		}
		return SeedData{}, fmt.Errorf("parse seed: %w", err)
	}
	for i, c := range seed.Categories {
		if c.ID == 0 || c.Type == "" {
			return SeedData{}, fmt.Errorf("parse seed: category %d needs id and type", i)
		}
	}
	for i, q := range seed.Questions {
		if q.Question == "" || q.Answer == "" {
			return SeedData{}, fmt.Errorf("parse seed: question %d needs question and answer", i)
		}
		if q.Difficulty < models.MinDifficulty || q.Difficulty > models.MaxDifficulty {
			return SeedData{}, fmt.Errorf("parse seed: question %d difficulty %d out of range", i, q.Difficulty)
		}
	}
	return seed, nil
}

// Apply inserts seed rows in one transaction. It does nothing when the
// categories table already has rows, so restarts never duplicate data.
func (s SeedData) Apply(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range s.Categories {
			cat := models.Category{ID: c.ID, Type: c.Type}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
		}
		for _, q := range s.Questions {
			question := models.Question{
				Question:   q.Question,
				Answer:     q.Answer,
				Category:   q.Category,
				Difficulty: q.Difficulty,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Seed loads path and applies it.
func Seed(db *gorm.DB, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read seed: %w", err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return false, err
	}
	return seed.Apply(db)
}
