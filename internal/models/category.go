package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:255;not null" json:"type"`
}

// CategoryMap renders categories the way the web client expects them: id to
// type.
func CategoryMap(categories []Category) map[uint]string {
	out := make(map[uint]string, len(categories))
	for _, c := range categories {
		out[c.ID] = c.Type
	}
	return out
}
