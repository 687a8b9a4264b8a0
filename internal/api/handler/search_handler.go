package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"characterhub/internal/api/service"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// RegisterRoutes mounts the search endpoint on the given group.
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
}

// Search handles GET /search?q=&mediaType=
func (h *SearchHandler) Search(c *gin.Context) {
	resp, err := h.searchService.Search(c.Request.Context(), c.Query("q"), c.DefaultQuery("mediaType", "all"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
