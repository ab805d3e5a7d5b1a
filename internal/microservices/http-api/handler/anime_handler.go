package handler

import (
	"net/http"
	"strconv"
	"strings"

	"animelog/internal/dnacard"
	"animelog/internal/microservices/http-api/dto"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AnimeHandler struct {
	svc service.AnimeService
}

func NewAnimeHandler(svc service.AnimeService) *AnimeHandler {
	return &AnimeHandler{svc: svc}
}

func (h *AnimeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/seasons", h.Seasons)
	rg.GET("/animes", h.List)
	rg.POST("/animes", h.Create)
	rg.GET("/animes/:id", h.Get)
	rg.PUT("/animes/:id", h.Update)
	rg.DELETE("/animes/:id", h.Delete)
	rg.PUT("/animes/:id/rating", h.Rate)
	rg.POST("/animes/:id/quotes", h.AddQuote)
	rg.DELETE("/animes/:id/quotes/:index", h.RemoveQuote)
	rg.PUT("/animes/:id/songs", h.SetSongs)
	rg.GET("/stats", h.Stats)
	rg.GET("/dna", h.DNACard)
}

// Seasons returns the log grouped by year and season.
func (h *AnimeHandler) Seasons(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	backfill, _ := strconv.ParseBool(c.DefaultQuery("backfill", "false"))

	ctx, cancel := requestContext(c)
	defer cancel()

	groups, err := h.svc.Seasons(ctx, st, backfill)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": groups})
}

func (h *AnimeHandler) List(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	animes, err := h.svc.List(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnimeListResponse{Items: animes, Total: len(animes)})
}

func (h *AnimeHandler) Get(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.Get(ctx, st, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}

func (h *AnimeHandler) Create(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.AnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.Add(ctx, st, animeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, anime)
}

func (h *AnimeHandler) Update(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.AnimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.Update(ctx, st, c.Param("id"), animeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}

func (h *AnimeHandler) Delete(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, st, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnimeHandler) Rate(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.Rate(ctx, st, c.Param("id"), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}

func (h *AnimeHandler) AddQuote(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.AddQuote(ctx, st, c.Param("id"), models.Quote{
		Text:      req.Text,
		Character: req.Character,
		Episode:   req.Episode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, anime)
}

func (h *AnimeHandler) RemoveQuote(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote index"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.RemoveQuote(ctx, st, c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}

func (h *AnimeHandler) SetSongs(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.SongsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.SetSongs(ctx, st, c.Param("id"), models.Songs{OP: req.OP, ED: req.ED})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, anime)
}

func (h *AnimeHandler) Stats(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := h.svc.Stats(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DNACard renders the card as JSON (default), YAML or Markdown.
func (h *AnimeHandler) DNACard(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	format, err := dnacard.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	card, err := h.svc.DNACard(ctx, st)
	if err != nil {
		respondError(c, err)
		return
	}

	switch format {
	case dnacard.FormatJSON:
		c.JSON(http.StatusOK, card)
		return
	case dnacard.FormatYAML:
		c.Header("Content-Type", "application/yaml; charset=utf-8")
	case dnacard.FormatMarkdown:
		c.Header("Content-Type", "text/markdown; charset=utf-8")
	}
	var sb strings.Builder
	if err := dnacard.Render(&sb, *card, format); err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, sb.String())
}

func animeInput(req dto.AnimeRequest) service.AnimeInput {
	return service.AnimeInput{
		Title:        req.Title,
		Image:        req.Image,
		Rating:       req.Rating,
		Watched:      req.Watched,
		RewatchCount: req.RewatchCount,
		Tags:         req.Tags,
		SeriesName:   req.SeriesName,
		Studios:      req.Studios,
		SeasonName:   req.SeasonName,
		AniListID:    req.AniListID,
		AnnictID:     req.AnnictID,
	}
}
