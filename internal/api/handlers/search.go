package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/amaumene/reeldle/internal/models"
	"github.com/sirupsen/logrus"
)

// maxQueryLength bounds the search text forwarded to the provider
const maxQueryLength = 100

// Searcher finds candidate records for free text
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Candidate, error)
}

// SearchHandler serves title autocomplete
type SearchHandler struct {
	searcher Searcher
	logger   *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher Searcher, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// ServeHTTP handles GET /api/search?q=
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []models.Candidate{})
		return
	}
	if runes := []rune(query); len(runes) > maxQueryLength {
		query = string(runes[:maxQueryLength])
	}

	candidates, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	writeJSON(w, http.StatusOK, candidates)
}
