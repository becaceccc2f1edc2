package employee

import (
	"time"

	"hr-lite/internal/department"
	"hr-lite/internal/position"
	"hr-lite/internal/shared/model"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName    string     `gorm:"size:50;not null"`
	LastName     string     `gorm:"size:50;not null"`
	Email        string     `gorm:"size:100;not null"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null"`
	PositionID   uuid.UUID  `gorm:"type:uuid;not null"`
	PhotoURL     string     `gorm:"column:photo_url;size:500;not null"`
	HireDate     *time.Time `gorm:"type:date"`
	Status       string     `gorm:"size:20;not null"`
	model.Timestamps

	Department *department.Department `gorm:"foreignKey:DepartmentID"`
	Position   *position.Position     `gorm:"foreignKey:PositionID"`
}

func (Employee) TableName() string {
	return "employees"
}
