package handler

import (
	"net/http"

	"animelog/internal/microservices/http-api/dto"
	"animelog/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles service.ProfileService
	reviews  service.ReviewService
}

func NewProfileHandler(profiles service.ProfileService, reviews service.ReviewService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, reviews: reviews}
}

// RegisterRoutes mounts the routes that need a logged-in user.
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
	rg.PUT("/profile", h.Upsert)
	rg.DELETE("/account", h.DeleteAccount)
	rg.GET("/animes/:id/reviews", h.ListReviews)
	rg.PUT("/animes/:id/review", h.UpsertReview)
	rg.DELETE("/animes/:id/review", h.DeleteReview)
}

// RegisterPublicRoutes mounts the routes that need no identity.
func (h *ProfileHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:handle", h.Public)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.profiles.Upsert(ctx, userID, service.ProfileInput{
		Username:  req.Username,
		Handle:    req.Handle,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		IsPublic:  req.IsPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Public shows a public profile with its DNA card.
func (h *ProfileHandler) Public(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.profiles.PublicProfile(ctx, c.Param("handle"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.profiles.DeleteAccount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteAccountResponse{Deleted: deleted})
}

func (h *ProfileHandler) ListReviews(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	reviews, err := h.reviews.ListByAnime(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": len(reviews)})
}

func (h *ProfileHandler) UpsertReview(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.reviews.Upsert(ctx, userID, c.Param("id"), service.ReviewInput{
		Body:       req.Body,
		Rating:     req.Rating,
		HasSpoiler: req.HasSpoiler,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ProfileHandler) DeleteReview(c *gin.Context) {
	userID, ok := hostedUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.reviews.Delete(ctx, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
