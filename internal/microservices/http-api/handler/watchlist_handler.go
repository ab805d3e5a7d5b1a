package handler

import (
	"net/http"

	"animelog/internal/microservices/http-api/dto"
	"animelog/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type WatchlistHandler struct {
	svc service.WatchlistService
}

func NewWatchlistHandler(svc service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

func (h *WatchlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.POST("/watched", h.BulkMarkWatched)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Remove)
	rg.POST("/:id/watched", h.MarkWatched)
}

// List accepts ?status=planned|watching|completed.
func (h *WatchlistHandler) List(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.svc.List(ctx, st, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WatchlistListResponse{Items: items, Total: len(items)})
}

// Add returns 201 for a new item and 200 with the existing one when the
// AniList id is already on the list.
func (h *WatchlistHandler) Add(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, created, err := h.svc.Add(ctx, st, service.WatchlistInput{
		AniListID:      req.AniListID,
		Title:          req.Title,
		Image:          req.Image,
		Status:         req.Status,
		TargetSeason:   req.TargetSeason,
		TargetYear:     req.TargetYear,
		BroadcastDay:   req.BroadcastDay,
		BroadcastTime:  req.BroadcastTime,
		StreamingSites: req.StreamingSites,
		Notify:         req.Notify,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, item)
}

func (h *WatchlistHandler) Update(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.WatchlistPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.svc.Update(ctx, st, c.Param("id"), service.WatchlistPatch{
		Status:         req.Status,
		TargetSeason:   req.TargetSeason,
		TargetYear:     req.TargetYear,
		ClearTarget:    req.ClearTarget,
		BroadcastDay:   req.BroadcastDay,
		BroadcastTime:  req.BroadcastTime,
		StreamingSites: req.StreamingSites,
		Notify:         req.Notify,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *WatchlistHandler) Remove(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Remove(ctx, st, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkWatched moves one item into the log. The body is optional.
func (h *WatchlistHandler) MarkWatched(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.MarkWatchedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	anime, err := h.svc.MarkWatched(ctx, st, c.Param("id"), req.SeasonName)
	if err != nil {
		if anime != nil {
			// the anime was logged but the watchlist item stayed
			c.JSON(http.StatusOK, gin.H{"anime": anime, "warning": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"anime": anime})
}

func (h *WatchlistHandler) BulkMarkWatched(c *gin.Context) {
	st, ok := ownerStore(c)
	if !ok {
		return
	}
	var req dto.BulkWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	results := h.svc.BulkMarkWatched(ctx, st, req.IDs, req.SeasonName)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "failed": failed})
}
