package catalog

import (
	"encoding/json"
	"net/http"
)

// Handler serves the catalog for the searchable service picker.
type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	if c == nil {
		c = Default()
	}
	return &Handler{catalog: c}
}

// SearchResponse is the body of GET /api/services.
type SearchResponse struct {
	Groups []Group `json:"groups"`
	Count  int     `json:"count"`
}

// Search handles GET /api/services?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	matches := h.catalog.Filter(r.URL.Query().Get("q"))
	resp := SearchResponse{Groups: GroupServices(matches), Count: len(matches)}
	if resp.Groups == nil {
		resp.Groups = []Group{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
