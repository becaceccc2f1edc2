package department

import (
	"hr-lite/internal/shared/model"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description *string   `gorm:"type:text"`
	model.Timestamps
}

func (Department) TableName() string {
	return "departments"
}
