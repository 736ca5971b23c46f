package feed

import "time"

// latestResponse is the Hermes /v2/updates/price/latest payload.
type latestResponse struct {
	Parsed []parsedFeed `json:"parsed"`
}

// parsedFeed is one decoded feed entry.
type parsedFeed struct {
	ID    string    `json:"id"`
	Price priceInfo `json:"price"`
}

// priceInfo is Pyth's fixed-point price encoding: the real price is
// price * 10^expo.
type priceInfo struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int    `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

// PriceUpdate is a decoded price observation.
type PriceUpdate struct {
	FeedID      string
	Price       float64
	PublishTime time.Time
}
