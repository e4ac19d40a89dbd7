package models

// Grade is a single student grade entry. A zero ID means the grade has not
// been persisted yet.
type Grade struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null;index" json:"name" validate:"required" label:"El nombre"`
	Score float64 `gorm:"not null" json:"score" validate:"min=0,max=100" label:"La calificación"`
}

func (g *Grade) IsNew() bool {
	return g.ID == 0
}
