package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// ILLMService defines the model-backed operations
type ILLMService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*types.WodAnalysis, error)
	Chat(ctx context.Context, messages []types.ChatMessage, analysis *types.WodAnalysis, athlete *types.AthleteContext) (string, error)
	Compare(ctx context.Context, today, yesterday *types.WodAnalysis, athlete *types.AthleteContext) (*types.WodComparison, error)
}

// IWodService defines the interface for history operations
type IWodService interface {
	Record(ctx context.Context, in RecordInput) (*models.WodEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WodEntry, error)
	List(ctx context.Context, filters types.WodFilters) ([]models.WodEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Yesterday(ctx context.Context) (*models.WodEntry, error)
	DayBefore(ctx context.Context, ref time.Time) (*models.WodEntry, error)
	Similar(ctx context.Context, id uuid.UUID, limit int) ([]SimilarWod, error)
}

// IAthleteService defines the interface for athlete profile operations
type IAthleteService interface {
	Create(ctx context.Context, req *types.CreateAthleteRequest) (*models.Athlete, error)
	List(ctx context.Context) ([]models.Athlete, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Athlete, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ResolveContext(ctx context.Context, id *uuid.UUID, inline *types.AthleteContext) (*types.AthleteContext, error)
}

// IImageService defines the interface for whiteboard photo storage
type IImageService interface {
	UploadWhiteboard(ctx context.Context, imageBase64, mediaType string) (string, error)
}

var (
	_ ILLMService   = (*LLMService)(nil)
	_ IImageService = (*ImageService)(nil)
)
