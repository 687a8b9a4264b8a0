package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"characterhub/internal/api/repository"
	"characterhub/internal/api/service"
	"characterhub/internal/ingestion"
)

type CharacterHandler struct {
	characterService service.CharacterService
	syncService      *ingestion.SyncService
}

func NewCharacterHandler(characterService service.CharacterService, syncService *ingestion.SyncService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService, syncService: syncService}
}

// RegisterRoutes mounts the character endpoints on the given group.
func (h *CharacterHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/characters", h.List)
	rg.POST("/characters/sync", requireAuth, h.Sync)
	rg.GET("/characters/:id", h.Get)
}

// List handles GET /characters?mediaType=&sort=&page=&limit=
func (h *CharacterHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	// "popular" has no meaning of its own yet, it rides the trending order.
	sortMode := c.DefaultQuery("sort", "trending")
	if sortMode == "popular" {
		sortMode = "trending"
	}

	resp, err := h.characterService.List(c.Request.Context(), repository.CharacterFilter{
		MediaType: c.Query("mediaType"),
		Sort:      sortMode,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /characters/:id where :id is a durable id, a raw external
// id, or an ext- composite token.
func (h *CharacterHandler) Get(c *gin.Context) {
	resp, err := h.characterService.GetWithStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sync handles POST /characters/sync: pulls the current trending and popular
// media from every catalog and upserts their casts.
func (h *CharacterHandler) Sync(c *gin.Context) {
	report, err := h.syncService.SyncAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
