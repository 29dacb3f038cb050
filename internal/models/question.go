package models

// Question.Category holds a Category id. It is indexed but carries no foreign
// key constraint.
type Question struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Question   string `gorm:"type:text;not null" json:"question"`
	Answer     string `gorm:"type:text;not null" json:"answer"`
	Category   uint   `gorm:"not null;index" json:"category"`
	Difficulty int    `gorm:"not null" json:"difficulty"`
}

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)
