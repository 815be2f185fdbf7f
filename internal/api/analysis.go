package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/types"
	"github.com/pageza/wod-analyzer/backend/internal/view"
)

// AnalysisHandler serves the endpoints that call the model
type AnalysisHandler struct {
	llm      service.ILLMService
	wods     service.IWodService
	athletes service.IAthleteService
	images   service.IImageService
	metrics  *metrics.Manager
}

func NewAnalysisHandler(llm service.ILLMService, wods service.IWodService, athletes service.IAthleteService, images service.IImageService, metricsManager *metrics.Manager) *AnalysisHandler {
	return &AnalysisHandler{
		llm:      llm,
		wods:     wods,
		athletes: athletes,
		images:   images,
		metrics:  metricsManager,
	}
}

func (h *AnalysisHandler) RegisterRoutes(router *gin.RouterGroup, limit ...gin.HandlerFunc) {
	route := func(path string, handler gin.HandlerFunc) {
		router.POST(path, append(append([]gin.HandlerFunc{}, limit...), handler)...)
	}
	route("/analyze", h.Analyze)
	route("/chat", h.Chat)
	route("/compare", h.Compare)
	route("/wods/:id/compare-yesterday", h.CompareYesterday)
}

// AnalyzeResponse is returned by the analyze endpoint. Entry is nil and
// Saved false when the history write failed.
type AnalyzeResponse struct {
	Analysis *types.WodAnalysis `json:"analysis"`
	View     *view.WodView      `json:"view"`
	Entry    *models.WodEntry   `json:"entry"`
	Saved    bool               `json:"saved"`
}

// CompareYesterdayResponse carries the comparison and the entry it was made against
type CompareYesterdayResponse struct {
	Comparison *types.WodComparison `json:"comparison"`
	View       *view.ComparisonView `json:"view"`
	Yesterday  *models.WodEntry     `json:"yesterday"`
}

type athleteRequest struct {
	AthleteID   *uuid.UUID            `json:"athlete_id"`
	UserProfile *types.AthleteContext `json:"userProfile"`
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	athlete, err := h.athletes.ResolveContext(ctx, req.AthleteID, req.UserProfile)
	if err != nil {
		respondError(c, err)
		return
	}

	mode := types.ParseMode(req.Mode)
	analysis, err := h.llm.Analyze(ctx, service.AnalyzeInput{
		WodText:        req.WodText,
		Mode:           mode,
		ImageBase64:    req.ImageBase64,
		ImageMediaType: req.ImageMediaType,
		Athlete:        athlete,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	in := service.RecordInput{
		WodName:        req.WodName,
		WodText:        req.WodText,
		Location:       req.Location,
		LocationCustom: req.LocationCustom,
		Mode:           mode,
		Analysis:       analysis,
		ImageURL:       h.storePhoto(ctx, req.ImageBase64, req.ImageMediaType),
	}
	if req.AthleteID != nil && *req.AthleteID != uuid.Nil {
		in.AthleteID = req.AthleteID
	}

	resp := AnalyzeResponse{Analysis: analysis, View: view.BuildWodView(analysis)}
	entry, err := h.wods.Record(ctx, in)
	if err != nil {
		log.WithError(err).Warn("analysis returned without saving it to history")
	} else {
		resp.Entry = entry
		resp.Saved = true
		h.metrics.WodSaved()
	}

	c.JSON(http.StatusOK, resp)
}

// storePhoto uploads the whiteboard photo when storage is configured. A
// failed upload only loses the photo link.
func (h *AnalysisHandler) storePhoto(ctx context.Context, imageBase64, mediaType string) string {
	if h.images == nil || imageBase64 == "" {
		return ""
	}
	url, err := h.images.UploadWhiteboard(ctx, imageBase64, mediaType)
	if err != nil {
		log.WithError(err).Warn("failed to store whiteboard photo")
		return ""
	}
	return url
}

func (h *AnalysisHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	athlete, err := h.athletes.ResolveContext(ctx, req.AthleteID, req.UserProfile)
	if err != nil {
		respondError(c, err)
		return
	}

	reply, err := h.llm.Chat(ctx, req.Messages, req.Analysis, athlete)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{Response: reply})
}

// Compare returns the comparison object as the model produced it
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req types.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	athlete, err := h.athletes.ResolveContext(ctx, req.AthleteID, req.UserProfile)
	if err != nil {
		respondError(c, err)
		return
	}

	comparison, err := h.llm.Compare(ctx, req.Today, req.Yesterday, athlete)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// CompareYesterday compares a stored entry with the latest one logged on
// the calendar day before it
func (h *AnalysisHandler) CompareYesterday(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req athleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	today, err := h.wods.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	yesterday, err := h.wods.DayBefore(ctx, today.CreatedAt)
	if err != nil {
		respondError(c, err)
		return
	}

	athleteID := req.AthleteID
	if athleteID == nil {
		athleteID = today.AthleteID
	}
	athlete, err := h.athletes.ResolveContext(ctx, athleteID, req.UserProfile)
	if errors.Is(err, service.ErrNotFound) && req.AthleteID == nil {
		// the athlete who logged the entry was deleted since
		athlete, err = req.UserProfile, nil
	}
	if err != nil {
		respondError(c, err)
		return
	}

	comparison, err := h.llm.Compare(ctx, today.AnalysisValue(), yesterday.AnalysisValue(), athlete)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompareYesterdayResponse{
		Comparison: comparison,
		View:       view.BuildComparisonView(comparison),
		Yesterday:  yesterday,
	})
}
