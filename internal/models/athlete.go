package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// Athlete is a person whose body metrics give context to the analysis prompt
type Athlete struct {
	ID               uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Name             string    `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Gender           string    `gorm:"column:genero;size:10;not null" json:"genero"`
	Age              int       `gorm:"column:edad;not null" json:"edad"`
	HeightCm         float64   `gorm:"column:altura_cm;not null" json:"altura_cm"`
	WeightKg         float64   `gorm:"column:peso_kg;not null" json:"peso_kg"`
	ExperienceMonths int       `gorm:"column:experiencia_meses;not null;default:0" json:"experiencia_meses"`
}

// TableName returns the table name for the Athlete model
func (Athlete) TableName() string {
	return "user_profiles"
}

// BeforeCreate assigns an ID when the caller did not
func (a *Athlete) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Context returns the prompt context for this athlete
func (a *Athlete) Context() *types.AthleteContext {
	return &types.AthleteContext{
		Name:             a.Name,
		Gender:           a.Gender,
		Age:              a.Age,
		HeightCm:         a.HeightCm,
		WeightKg:         a.WeightKg,
		ExperienceMonths: a.ExperienceMonths,
	}
}
