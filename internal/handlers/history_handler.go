package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	history SearchHistory
}

func NewHistoryHandler(history SearchHistory) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory handles GET /api/v1/search/history
// @Summary      Recent searches
// @Description  Up to five distinct queries, most recent first.
// @Tags         search
// @Produce      json
// @Success      200  {object}  HistoryResponse
// @Router       /search/history [get]
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, HistoryResponse{Queries: h.history.History(c.Request.Context())})
}
