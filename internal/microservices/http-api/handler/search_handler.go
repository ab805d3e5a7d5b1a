package handler

import (
	"context"
	"net/http"

	"animelog/internal/search"

	"github.com/gin-gonic/gin"
)

type Searcher interface {
	Search(ctx context.Context, query string) (*search.Result, error)
	Season(ctx context.Context, name string) (*search.Result, error)
}

type SearchHandler struct {
	svc Searcher
}

func NewSearchHandler(svc Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
	rg.GET("/season", h.Season)
}

// Search merges AniList and Annict results for ?q=.
func (h *SearchHandler) Search(c *gin.Context) {
	// upstream calls carry their own timeout
	result, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Season lists the shows of ?name=2025年春.
func (h *SearchHandler) Season(c *gin.Context) {
	result, err := h.svc.Season(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
