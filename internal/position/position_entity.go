package position

import (
	"hr-lite/internal/shared/model"

	"github.com/google/uuid"
)

type Position struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string    `gorm:"size:100;not null"`
	model.Timestamps
}

func (Position) TableName() string {
	return "positions"
}
