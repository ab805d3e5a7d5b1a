package handler

import (
	"net/http"
	"time"

	"animelog/internal/microservices/http-api/dto"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// PreferenceHandler serves the blob-backed features: favorite characters,
// dismissed suggestions, UI preferences and the season rollover check.
type PreferenceHandler struct {
	prefs    service.PreferenceService
	rollover service.RolloverService
	now      func() time.Time
}

func NewPreferenceHandler(prefs service.PreferenceService, rollover service.RolloverService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, rollover: rollover, now: time.Now}
}

func (h *PreferenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/favorites/characters", h.FavoriteCharacters)
	rg.PUT("/favorites/characters", h.SaveFavoriteCharacters)
	rg.GET("/suggestions/dismissed", h.DismissedSuggestions)
	rg.POST("/suggestions/dismissed", h.DismissSuggestion)
	rg.GET("/preferences", h.Preferences)
	rg.PUT("/preferences", h.SavePreferences)
	rg.GET("/rollover", h.CheckRollover)
	rg.POST("/rollover/resolve", h.ResolveRollover)
}

func (h *PreferenceHandler) FavoriteCharacters(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	chars, err := h.prefs.FavoriteCharacters(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

// SaveFavoriteCharacters replaces the whole list.
func (h *PreferenceHandler) SaveFavoriteCharacters(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req struct {
		Characters []models.FavoriteCharacter `json:"characters"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	chars, err := h.prefs.SaveFavoriteCharacters(ctx, st, req.Characters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

func (h *PreferenceHandler) DismissedSuggestions(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	ids, err := h.prefs.DismissedSuggestions(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"anilist_ids": ids})
}

func (h *PreferenceHandler) DismissSuggestion(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.DismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.prefs.DismissSuggestion(ctx, st, req.AniListID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PreferenceHandler) Preferences(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	prefs, err := h.prefs.Preferences(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) SavePreferences(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var prefs models.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.prefs.SavePreferences(ctx, st, prefs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) CheckRollover(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.rollover.Check(ctx, st, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PreferenceHandler) ResolveRollover(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.RolloverResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := h.rollover.Resolve(ctx, st, h.now(), req.Choice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": n})
}
