package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/reeldle/internal/models"
)

// GetDetails retrieves the full record for a movie, including credits
func (c *Client) GetDetails(ctx context.Context, id int) (*models.ItemRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid id %d", models.ErrNotFound, id)
	}

	key := "details:" + strconv.Itoa(id)
	if cached, ok := c.cache.Get(key); ok {
		c.metrics.CacheHits.WithLabelValues("details", "hit").Inc()
		return cached.(*models.ItemRecord), nil
	}
	c.metrics.CacheHits.WithLabelValues("details", "miss").Inc()

	params := url.Values{}
	params.Set("append_to_response", "credits")

	var raw movieDetails
	if err := c.doRequest(ctx, "details", fmt.Sprintf("/movie/%d", id), params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get details for %d: %w", id, err)
	}

	record, err := toRecord(&raw)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, record)
	return record, nil
}
