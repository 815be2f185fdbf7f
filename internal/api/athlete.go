package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

type AthleteHandler struct {
	athletes service.IAthleteService
}

func NewAthleteHandler(athletes service.IAthleteService) *AthleteHandler {
	return &AthleteHandler{athletes: athletes}
}

func (h *AthleteHandler) RegisterRoutes(router *gin.RouterGroup) {
	athletes := router.Group("/athletes")
	{
		athletes.GET("", h.List)
		athletes.POST("", h.Create)
		athletes.GET("/:id", h.Get)
		athletes.DELETE("/:id", h.Delete)
	}
}

func (h *AthleteHandler) List(c *gin.Context) {
	athletes, err := h.athletes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, athletes)
}

func (h *AthleteHandler) Create(c *gin.Context) {
	var req types.CreateAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	athlete, err := h.athletes.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, athlete)
}

func (h *AthleteHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	athlete, err := h.athletes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, athlete)
}

func (h *AthleteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.athletes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "athlete deleted successfully"})
}
