package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// ImageOnlyWodText is stored as the WOD text when only a whiteboard photo was sent
const ImageOnlyWodText = "[Imagen de pizarra]"

// WodEntry is one analyzed workout in the history
type WodEntry struct {
	ID        uuid.UUID    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
	WodName   *string      `gorm:"column:nombre_wod;size:200" json:"nombre_wod"`
	WodText   string       `gorm:"column:wod_text;type:text;not null" json:"wod_text"`
	Location  string       `gorm:"column:ubicacion;size:200;not null;index" json:"ubicacion"`
	Mode      types.Mode   `gorm:"column:modo;size:20;not null" json:"modo"`
	Analysis  AnalysisJSON `gorm:"column:analisis;type:jsonb;not null" json:"analisis"`
	WodType   *string      `gorm:"column:tipo_wod;size:200" json:"tipo_wod"`
	Intensity *int         `gorm:"column:intensidad" json:"intensidad"`
	ImageURL  *string      `gorm:"column:imagen_url;size:500" json:"imagen_url"`
	AthleteID *uuid.UUID   `gorm:"type:uuid;index" json:"athlete_id,omitempty"`
	Embedding LoadProfile  `gorm:"type:vector(38)" json:"-"`
}

// TableName returns the table name for the WodEntry model
func (WodEntry) TableName() string {
	return "wod_history"
}

// BeforeCreate assigns an ID when the caller did not
func (e *WodEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AnalysisValue returns the stored analysis as its API type
func (e *WodEntry) AnalysisValue() *types.WodAnalysis {
	analysis := types.WodAnalysis(e.Analysis)
	return &analysis
}
