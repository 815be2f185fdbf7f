package types

import "github.com/google/uuid"

// AnalyzeRequest represents the request body for analyzing a WOD
type AnalyzeRequest struct {
	WodText        string          `json:"wodText"`
	Mode           string          `json:"modo"`
	ImageBase64    string          `json:"imageBase64"`
	ImageMediaType string          `json:"imageMediaType"`
	AthleteID      *uuid.UUID      `json:"athlete_id"`
	UserProfile    *AthleteContext `json:"userProfile"`
	WodName        string          `json:"nombre_wod"`
	Location       string          `json:"ubicacion"`
	LocationCustom string          `json:"ubicacion_custom"`
}

// ChatRequest represents the request body for a follow-up chat turn
type ChatRequest struct {
	Messages    []ChatMessage   `json:"messages"`
	Analysis    *WodAnalysis    `json:"wodAnalisis"`
	AthleteID   *uuid.UUID      `json:"athlete_id"`
	UserProfile *AthleteContext `json:"userProfile"`
}

// ChatResponse is returned by the chat endpoint
type ChatResponse struct {
	Response string `json:"response"`
}

// CompareRequest represents the request body for comparing two analyses
type CompareRequest struct {
	Today       *WodAnalysis    `json:"analisisHoy"`
	Yesterday   *WodAnalysis    `json:"analisisAyer"`
	AthleteID   *uuid.UUID      `json:"athlete_id"`
	UserProfile *AthleteContext `json:"userProfile"`
}

// CreateAthleteRequest represents the request body for creating an athlete profile
type CreateAthleteRequest struct {
	Name             string  `json:"nombre"`
	Gender           string  `json:"genero"`
	Age              int     `json:"edad"`
	HeightCm         float64 `json:"altura_cm"`
	WeightKg         float64 `json:"peso_kg"`
	ExperienceYears  int     `json:"experiencia_anios"`
	ExperienceMonths int     `json:"experiencia_meses"`
}

// WodFilters represents filters for listing history entries
type WodFilters struct {
	Location string
	Limit    int
}

// HistoryStats are the quick numbers shown above the history list
type HistoryStats struct {
	Total         int      `json:"total"`
	MeanIntensity float64  `json:"intensidad_media"`
	Locations     []string `json:"ubicaciones"`
}
