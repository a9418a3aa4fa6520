// Package kakao implements nearest-POI search against the Kakao Local
// category API.
package kakao

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"HomePulse/internal/domain/models"
	domrepo "HomePulse/internal/domain/repository"
	xhttp "HomePulse/pkg/http"
)

// retryBackoff is the base sleep between the two attempts a search gets.
const retryBackoff = 80 * time.Millisecond

// Client implements repository.PoiSearch.
type Client struct {
	baseURL string
	restKey string
	http    *xhttp.Client
	metrics domrepo.Metrics
}

// Option configures Client.
type Option func(*Client)

// WithMetrics records call outcomes.
func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Kakao Local client.
func New(baseURL, restKey string, http *xhttp.Client, opts ...Option) *Client {
	c := &Client{baseURL: baseURL, restKey: restKey, http: http}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type document struct {
	PlaceName string `json:"place_name"`
	X         string `json:"x"` // lon
	Y         string `json:"y"` // lat
	Distance  string `json:"distance"`
}

type searchResponse struct {
	Documents []document `json:"documents"`
}

// Nearest returns the closest POI of a category within radiusM, or
// (nil, nil) when none exists. Transport failures are retried once with a
// short backoff before the error is surfaced.
func (c *Client) Nearest(ctx context.Context, lat, lon float64, categoryCode string, radiusM int) (*models.POI, error) {
	if c.restKey == "" {
		return nil, fmt.Errorf("kakao rest key is not configured")
	}

	var resp searchResponse
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		lastErr = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/v2/local/search/category.json",
			Headers: map[string]string{
				"Authorization": "KakaoAK " + c.restKey,
			},
			QueryParams: map[string][]string{
				"category_group_code": {categoryCode},
				"x":                   {strconv.FormatFloat(lon, 'f', -1, 64)},
				"y":                   {strconv.FormatFloat(lat, 'f', -1, 64)},
				"radius":              {strconv.Itoa(radiusM)},
				"sort":                {"distance"},
			},
		}, &resp)
		if lastErr == nil {
			break
		}
		if attempt < 2 {
			select {
			case <-time.After(retryBackoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if c.metrics != nil {
		result := "ok"
		if lastErr != nil {
			result = "error"
		}
		c.metrics.RecordUpstreamCall("kakao", result)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("kakao search %s: %w", categoryCode, lastErr)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}
	first := resp.Documents[0]

	poiLon, errX := strconv.ParseFloat(first.X, 64)
	poiLat, errY := strconv.ParseFloat(first.Y, 64)
	if errX != nil || errY != nil {
		return nil, nil
	}

	poi := &models.POI{
		Name:      first.PlaceName,
		Latitude:  poiLat,
		Longitude: poiLon,
	}
	if d, err := strconv.Atoi(first.Distance); err == nil {
		poi.DistanceM = &d
	}
	return poi, nil
}
