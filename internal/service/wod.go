package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	DefaultSimilarLimit = 5
)

// RecordInput is an analyzed WOD ready to be written to history
type RecordInput struct {
	WodName        string
	WodText        string
	Location       string
	LocationCustom string
	Mode           types.Mode
	Analysis       *types.WodAnalysis
	ImageURL       string
	AthleteID      *uuid.UUID
}

// SimilarWod is a history entry with its load-profile distance to a reference entry
type SimilarWod struct {
	models.WodEntry
	Distance float64 `json:"distance"`
}

// WodService handles the WOD history
type WodService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// Ensure WodService implements IWodService
var _ IWodService = (*WodService)(nil)

// NewWodService creates a new WodService. Calendar days ("yesterday") are
// evaluated in loc; nil means UTC.
func NewWodService(db *gorm.DB, loc *time.Location) *WodService {
	if loc == nil {
		loc = time.UTC
	}
	return &WodService{
		db:  db,
		loc: loc,
		now: time.Now,
	}
}

// ResolveLocation returns the custom location when "Otro" was picked with a value
func ResolveLocation(location, custom string) string {
	location = strings.TrimSpace(location)
	custom = strings.TrimSpace(custom)
	if location == types.OtherLocation && custom != "" {
		return custom
	}
	if location == "" {
		if custom != "" {
			return custom
		}
		return types.OtherLocation
	}
	return location
}

// Record writes an analyzed WOD to history
func (s *WodService) Record(ctx context.Context, in RecordInput) (*models.WodEntry, error) {
	if in.Analysis == nil {
		return nil, ErrMissingAnalysis
	}

	intensity := in.Analysis.Intensity
	entry := &models.WodEntry{
		WodText:   strings.TrimSpace(in.WodText),
		Location:  ResolveLocation(in.Location, in.LocationCustom),
		Mode:      types.ParseMode(string(in.Mode)),
		Analysis:  models.AnalysisJSON(*in.Analysis),
		Intensity: &intensity,
		AthleteID: in.AthleteID,
		Embedding: GenerateLoadProfile(in.Analysis),
	}
	if entry.WodText == "" {
		entry.WodText = models.ImageOnlyWodText
	}
	if name := strings.TrimSpace(in.WodName); name != "" {
		entry.WodName = &name
	}
	if wodType := strings.TrimSpace(in.Analysis.WodType); wodType != "" {
		entry.WodType = &wodType
	}
	if in.ImageURL != "" {
		url := in.ImageURL
		entry.ImageURL = &url
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to save WOD: %w", err)
	}
	return entry, nil
}

// Get retrieves an entry by ID
func (s *WodService) Get(ctx context.Context, id uuid.UUID) (*models.WodEntry, error) {
	var entry models.WodEntry
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// List returns entries newest first
func (s *WodService) List(ctx context.Context, filters types.WodFilters) ([]models.WodEntry, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		query = query.Where("ubicacion = ?", loc)
	}

	entries := []models.WodEntry{}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list WODs: %w", err)
	}
	return entries, nil
}

// Delete removes an entry
func (s *WodService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.WodEntry{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete WOD: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Yesterday returns the latest entry logged on the calendar day before today
func (s *WodService) Yesterday(ctx context.Context) (*models.WodEntry, error) {
	return s.DayBefore(ctx, s.now())
}

// DayBefore returns the latest entry logged on the calendar day before ref
func (s *WodService) DayBefore(ctx context.Context, ref time.Time) (*models.WodEntry, error) {
	ref = ref.In(s.loc)
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, s.loc)
	start := today.AddDate(0, 0, -1)

	var entry models.WodEntry
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start.UTC(), today.UTC()).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPreviousWod
		}
		return nil, fmt.Errorf("failed to look up previous WOD: %w", err)
	}
	return &entry, nil
}

// Similar returns the entries whose load profile is closest to the given entry's
func (s *WodService) Similar(ctx context.Context, id uuid.UUID, limit int) ([]SimilarWod, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	ref, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := ref.Embedding
	if len(profile.Slice()) == 0 {
		profile = GenerateLoadProfile(ref.AnalysisValue())
	}

	if s.db.Dialector.Name() == "postgres" {
		results := []SimilarWod{}
		err := s.db.WithContext(ctx).Raw(
			`SELECT *, embedding <-> ? AS distance FROM wod_history
			 WHERE id <> ? AND embedding IS NOT NULL
			 ORDER BY distance ASC LIMIT ?`,
			profile, id, limit,
		).Scan(&results).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search similar WODs: %w", err)
		}
		return results, nil
	}

	// Fallback for databases without pgvector
	var candidates []models.WodEntry
	if err := s.db.WithContext(ctx).Where("id <> ?", id).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar WODs: %w", err)
	}
	log.WithField("candidates", len(candidates)).Debug("ranking similar WODs in memory")

	results := make([]SimilarWod, 0, len(candidates))
	for _, c := range candidates {
		vec := c.Embedding
		if len(vec.Slice()) == 0 {
			vec = GenerateLoadProfile(c.AnalysisValue())
		}
		d := profileDistance(profile.Slice(), vec.Slice())
		if math.IsInf(d, 1) {
			continue
		}
		results = append(results, SimilarWod{WodEntry: c, Distance: d})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
