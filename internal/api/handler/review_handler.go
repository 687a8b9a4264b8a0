package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"characterhub/internal/api/dto"
	"characterhub/internal/api/middleware"
	"characterhub/internal/api/service"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	userService   service.UserService
}

func NewReviewHandler(reviewService service.ReviewService, userService service.UserService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, userService: userService}
}

// RegisterRoutes mounts the review endpoints on the given group.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	rg.GET("/characters/:id/reviews", optionalAuth, h.List)
	rg.POST("/characters/:id/reviews", requireAuth, h.Submit)
	rg.POST("/characters/:id/reviews/:reviewId/like", requireAuth, h.ToggleLike)
}

// List handles GET /characters/:id/reviews?sort=recent|likes
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(
		c.Request.Context(),
		c.Param("id"),
		c.DefaultQuery("sort", "recent"),
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Submit handles POST /characters/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	var input dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	actor, err := h.userService.ResolveActor(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		c.GetString(middleware.ContextEmail),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	review, err := h.reviewService.SubmitRating(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// ToggleLike handles POST /characters/:id/reviews/:reviewId/like. The review
// row already knows its character, so the path-level character reference is
// not re-resolved.
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	actor, err := h.userService.ResolveActor(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		c.GetString(middleware.ContextEmail),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.reviewService.ToggleLike(c.Request.Context(), c.Param("reviewId"), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
