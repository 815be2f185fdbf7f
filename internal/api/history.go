package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/types"
	"github.com/pageza/wod-analyzer/backend/internal/view"
)

// HistoryHandler serves the stored WOD history
type HistoryHandler struct {
	wods service.IWodService
}

func NewHistoryHandler(wods service.IWodService) *HistoryHandler {
	return &HistoryHandler{wods: wods}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/locations", h.Locations)

	wods := router.Group("/wods")
	{
		wods.GET("", h.List)
		wods.GET("/stats", h.Stats)
		wods.GET("/:id", h.Get)
		wods.GET("/:id/view", h.View)
		wods.GET("/:id/similar", h.Similar)
		wods.DELETE("/:id", h.Delete)
	}
}

// queryLimit reads the optional limit parameter; zero means the default
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		badRequest(c, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

func (h *HistoryHandler) filters(c *gin.Context) (types.WodFilters, bool) {
	limit, ok := queryLimit(c)
	return types.WodFilters{Location: c.Query("ubicacion"), Limit: limit}, ok
}

func (h *HistoryHandler) List(c *gin.Context) {
	filters, ok := h.filters(c)
	if !ok {
		return
	}
	entries, err := h.wods.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Stats summarizes the same entries List would return
func (h *HistoryHandler) Stats(c *gin.Context) {
	filters, ok := h.filters(c)
	if !ok {
		return
	}
	entries, err := h.wods.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view.Stats(entries))
}

func (h *HistoryHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entry, err := h.wods.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *HistoryHandler) View(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	entry, err := h.wods.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view.BuildWodView(entry.AnalysisValue()))
}

func (h *HistoryHandler) Similar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	similar, err := h.wods.Similar(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, similar)
}

func (h *HistoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.wods.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "WOD deleted successfully"})
}

func (h *HistoryHandler) Locations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"locations": types.PredefinedLocations,
		"other":     types.OtherLocation,
	})
}
