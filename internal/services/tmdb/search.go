package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/amaumene/reeldle/internal/utils"
	"github.com/sirupsen/logrus"
)

// Search returns movie candidates for a free-text query in TMDB relevance order
func (c *Client) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	return c.search(ctx, query, 0)
}

func (c *Client) search(ctx context.Context, query string, year int) ([]models.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Candidate{}, nil
	}

	key := "search:" + strings.ToLower(query) + ":" + strconv.Itoa(year)
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.CacheHits.WithLabelValues("search", "hit").Inc()
		return cached.([]models.Candidate), nil
	}
	c.metrics.CacheHits.WithLabelValues("search", "miss").Inc()

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var resp searchResponse
	if err := c.doRequest(ctx, "search", "/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("movie search failed: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.ID <= 0 || strings.TrimSpace(r.Title) == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			ID:          r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Poster:      posterURL(r.PosterPath),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"query": query,
		"year":  year,
		"count": len(candidates),
	}).Debug("TMDB search completed")

	c.cache.SetDefault(key, candidates)
	return candidates, nil
}

// ResolveTitle finds the catalog title on TMDB and fetches its full record.
// A trailing "(YYYY)" narrows the search to that release year.
func (c *Client) ResolveTitle(ctx context.Context, title string) (*models.ItemRecord, error) {
	name, year := utils.SplitTitleYear(title)

	candidates, err := c.search(ctx, name, year)
	if err != nil {
		return nil, err
	}

	// Fallback: if year was provided but no results, retry without year
	if len(candidates) == 0 && year > 0 {
		candidates, err = c.search(ctx, name, 0)
		if err != nil {
			return nil, err
		}
	}

	best, ok := BestMatch(name, year, candidates)
	if !ok {
		return nil, fmt.Errorf("%w: no TMDB match for %q", models.ErrNotFound, title)
	}

	c.logger.WithFields(logrus.Fields{
		"title":   title,
		"tmdb_id": best.ID,
		"match":   best.Title,
	}).Debug("Resolved catalog title")

	return c.GetDetails(ctx, best.ID)
}

// BestMatch picks the candidate for a title: an exact normalized title match
// (preferring the requested year), otherwise the smallest edit distance.
// Ties keep the provider's relevance order.
func BestMatch(title string, year int, candidates []models.Candidate) (models.Candidate, bool) {
	if len(candidates) == 0 {
		return models.Candidate{}, false
	}

	want := utils.NormalizeTitle(title)

	var exact []models.Candidate
	for _, cand := range candidates {
		if utils.NormalizeTitle(cand.Title) == want {
			exact = append(exact, cand)
		}
	}
	if len(exact) > 0 {
		if year > 0 {
			for _, cand := range exact {
				if candidateYear(cand) == year {
					return cand, true
				}
			}
		}
		return exact[0], true
	}

	best := candidates[0]
	bestDistance := levenshtein.ComputeDistance(want, utils.NormalizeTitle(best.Title))
	for _, cand := range candidates[1:] {
		distance := levenshtein.ComputeDistance(want, utils.NormalizeTitle(cand.Title))
		if distance < bestDistance {
			best, bestDistance = cand, distance
		}
	}
	return best, true
}

func candidateYear(cand models.Candidate) int {
	if date := utils.ParseReleaseDate(cand.ReleaseDate); date != nil {
		return date.Year()
	}
	return 0
}
