package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsResponse is a snapshot of the in-process state.
// @Description Service statistics
type StatsResponse struct {
	Catalog       CatalogStats `json:"catalog"`
	CartItems     int          `json:"cart_items" example:"2"`
	CartTotal     string       `json:"cart_total" example:"125"`
	SearchHistory int          `json:"search_history" example:"3"`
	KVBackend     string       `json:"kv_backend" example:"leveldb"`
	Events        string       `json:"events" example:"in-memory"`
}

type CatalogStats struct {
	Mode          string `json:"mode" example:"browsing"`
	HeldProducts  int    `json:"held_products" example:"16"`
	Offset        int    `json:"offset" example:"16"`
	Limit         int    `json:"limit" example:"8"`
	IsLoadingMore bool   `json:"is_loading_more"`
}

type MonitoringHandler struct {
	catalog   ProductCatalog
	cart      Cart
	history   SearchHistory
	kvBackend string
	events    string
}

func NewMonitoringHandler(productCatalog ProductCatalog, cart Cart, history SearchHistory, kvBackend, events string) *MonitoringHandler {
	return &MonitoringHandler{
		catalog:   productCatalog,
		cart:      cart,
		history:   history,
		kvBackend: kvBackend,
		events:    events,
	}
}

// GetStats godoc
// @Summary      Get service statistics
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Router       /monitoring/stats [get]
func (h *MonitoringHandler) GetStats(c *gin.Context) {
	page := h.catalog.Pagination()

	c.JSON(http.StatusOK, StatsResponse{
		Catalog: CatalogStats{
			Mode:          h.catalog.Mode().String(),
			HeldProducts:  len(h.catalog.Products()),
			Offset:        page.Offset,
			Limit:         page.Limit,
			IsLoadingMore: page.IsLoadingMore,
		},
		CartItems:     h.cart.Len(),
		CartTotal:     h.cart.TotalCost().String(),
		SearchHistory: len(h.history.History(c.Request.Context())),
		KVBackend:     h.kvBackend,
		Events:        h.events,
	})
}
