package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// MockLLMService is a mock implementation of the model-backed operations
type MockLLMService struct {
	mock.Mock
}

// Analyze mocks the Analyze method
func (m *MockLLMService) Analyze(ctx context.Context, in service.AnalyzeInput) (*types.WodAnalysis, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WodAnalysis), args.Error(1)
}

// Chat mocks the Chat method
func (m *MockLLMService) Chat(ctx context.Context, messages []types.ChatMessage, analysis *types.WodAnalysis, athlete *types.AthleteContext) (string, error) {
	args := m.Called(ctx, messages, analysis, athlete)
	return args.String(0), args.Error(1)
}

// Compare mocks the Compare method
func (m *MockLLMService) Compare(ctx context.Context, today, yesterday *types.WodAnalysis, athlete *types.AthleteContext) (*types.WodComparison, error) {
	args := m.Called(ctx, today, yesterday, athlete)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.WodComparison), args.Error(1)
}

// MockWodService is a mock implementation of the history service
type MockWodService struct {
	mock.Mock
}

// Record mocks the Record method
func (m *MockWodService) Record(ctx context.Context, in service.RecordInput) (*models.WodEntry, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WodEntry), args.Error(1)
}

// Get mocks the Get method
func (m *MockWodService) Get(ctx context.Context, id uuid.UUID) (*models.WodEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WodEntry), args.Error(1)
}

// List mocks the List method
func (m *MockWodService) List(ctx context.Context, filters types.WodFilters) ([]models.WodEntry, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WodEntry), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockWodService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Yesterday mocks the Yesterday method
func (m *MockWodService) Yesterday(ctx context.Context) (*models.WodEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WodEntry), args.Error(1)
}

// DayBefore mocks the DayBefore method
func (m *MockWodService) DayBefore(ctx context.Context, ref time.Time) (*models.WodEntry, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WodEntry), args.Error(1)
}

// Similar mocks the Similar method
func (m *MockWodService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]service.SimilarWod, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.SimilarWod), args.Error(1)
}

// MockAthleteService is a mock implementation of athlete profile operations
type MockAthleteService struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockAthleteService) Create(ctx context.Context, req *types.CreateAthleteRequest) (*models.Athlete, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Athlete), args.Error(1)
}

// List mocks the List method
func (m *MockAthleteService) List(ctx context.Context) ([]models.Athlete, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Athlete), args.Error(1)
}

// Get mocks the Get method
func (m *MockAthleteService) Get(ctx context.Context, id uuid.UUID) (*models.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Athlete), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockAthleteService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ResolveContext mocks the ResolveContext method
func (m *MockAthleteService) ResolveContext(ctx context.Context, id *uuid.UUID, inline *types.AthleteContext) (*types.AthleteContext, error) {
	args := m.Called(ctx, id, inline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AthleteContext), args.Error(1)
}

// MockImageService is a mock implementation of whiteboard photo storage
type MockImageService struct {
	mock.Mock
}

// UploadWhiteboard mocks the UploadWhiteboard method
func (m *MockImageService) UploadWhiteboard(ctx context.Context, imageBase64, mediaType string) (string, error) {
	args := m.Called(ctx, imageBase64, mediaType)
	return args.String(0), args.Error(1)
}

var (
	_ service.ILLMService     = (*MockLLMService)(nil)
	_ service.IWodService     = (*MockWodService)(nil)
	_ service.IAthleteService = (*MockAthleteService)(nil)
	_ service.IImageService   = (*MockImageService)(nil)
)
