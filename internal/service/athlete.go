package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// AthleteService handles athlete profiles
type AthleteService struct {
	db *gorm.DB
}

// Ensure AthleteService implements IAthleteService
var _ IAthleteService = (*AthleteService)(nil)

// NewAthleteService creates a new AthleteService instance
func NewAthleteService(db *gorm.DB) *AthleteService {
	return &AthleteService{
		db: db,
	}
}

// ValidateAthlete checks presence and numeric ranges
func ValidateAthlete(req *types.CreateAthleteRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "nombre", Message: "El nombre es obligatorio"}
	}
	if req.Gender != types.GenderMale && req.Gender != types.GenderFemale {
		return &ValidationError{Field: "genero", Message: "Género debe ser hombre o mujer"}
	}
	if req.Age < 10 || req.Age > 100 {
		return &ValidationError{Field: "edad", Message: "Edad debe estar entre 10 y 100"}
	}
	if req.HeightCm < 100 || req.HeightCm > 250 {
		return &ValidationError{Field: "altura_cm", Message: "Altura debe estar entre 100 y 250 cm"}
	}
	if req.WeightKg < 30 || req.WeightKg > 250 {
		return &ValidationError{Field: "peso_kg", Message: "Peso debe estar entre 30 y 250 kg"}
	}
	if req.ExperienceYears < 0 || req.ExperienceMonths < 0 {
		return &ValidationError{Field: "experiencia", Message: "La experiencia no puede ser negativa"}
	}
	return nil
}

// Create validates and stores a new athlete
func (s *AthleteService) Create(ctx context.Context, req *types.CreateAthleteRequest) (*models.Athlete, error) {
	if err := ValidateAthlete(req); err != nil {
		return nil, err
	}

	athlete := &models.Athlete{
		Name:             strings.TrimSpace(req.Name),
		Gender:           req.Gender,
		Age:              req.Age,
		HeightCm:         req.HeightCm,
		WeightKg:         req.WeightKg,
		ExperienceMonths: req.ExperienceYears*12 + req.ExperienceMonths,
	}
	if err := s.db.WithContext(ctx).Create(athlete).Error; err != nil {
		return nil, fmt.Errorf("failed to create athlete: %w", err)
	}
	return athlete, nil
}

// List returns all athletes, oldest first
func (s *AthleteService) List(ctx context.Context) ([]models.Athlete, error) {
	athletes := []models.Athlete{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&athletes).Error; err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	return athletes, nil
}

// Get retrieves an athlete by ID
func (s *AthleteService) Get(ctx context.Context, id uuid.UUID) (*models.Athlete, error) {
	var athlete models.Athlete
	if err := s.db.WithContext(ctx).First(&athlete, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &athlete, nil
}

// Delete removes an athlete. History entries keep their athlete_id.
func (s *AthleteService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Athlete{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete athlete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveContext picks the prompt context for a request: a stored athlete
// when an ID is given, else the inline profile, else nil for the default.
func (s *AthleteService) ResolveContext(ctx context.Context, id *uuid.UUID, inline *types.AthleteContext) (*types.AthleteContext, error) {
	if id != nil && *id != uuid.Nil {
		athlete, err := s.Get(ctx, *id)
		if err != nil {
			return nil, err
		}
		return athlete.Context(), nil
	}
	return inline, nil
}
