package feed

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"
)

// LatestPrice fetches the most recent price update for a single feed id.
func (c *Client) LatestPrice(ctx context.Context, feedID string) (PriceUpdate, error) {
	query := url.Values{}
	query.Add("ids[]", feedID)

	var resp latestResponse
	if err := c.get(ctx, "/v2/updates/price/latest", query, &resp); err != nil {
		return PriceUpdate{}, err
	}

	if len(resp.Parsed) == 0 {
		return PriceUpdate{}, fmt.Errorf("no parsed update for feed %s", feedID)
	}

	return decodeUpdate(resp.Parsed[0])
}

// decodeUpdate converts Pyth's fixed-point encoding to a float price.
func decodeUpdate(p parsedFeed) (PriceUpdate, error) {
	raw, err := strconv.ParseInt(p.Price.Price, 10, 64)
	if err != nil {
		return PriceUpdate{}, fmt.Errorf("parse price %q for feed %s: %w", p.Price.Price, p.ID, err)
	}

	price := float64(raw) * math.Pow(10, float64(p.Price.Expo))
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PriceUpdate{}, fmt.Errorf("unusable price %v for feed %s", price, p.ID)
	}

	return PriceUpdate{
		FeedID:      p.ID,
		Price:       price,
		PublishTime: time.Unix(p.Price.PublishTime, 0).UTC(),
	}, nil
}
