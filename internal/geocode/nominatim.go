// Package geocode resolves coordinates to human-readable place names and
// caches the results per member with a movement gate, so lookup volume is
// bounded by genuine movement rather than update frequency.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/geo"
)

// Geocoder is the reverse-geocoding boundary. Best effort: an empty name
// with a nil error means the service had nothing useful for the position.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, p geo.Point, lang string) (string, error)
}

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim resolves place names against the OSM Nominatim API.
type Nominatim struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewNominatim(baseURL string, log *zap.Logger) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Nominatim{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

type nominatimResponse struct {
	Address map[string]string `json:"address"`
}

// Most-specific-first preference over Nominatim address fields.
var addressFields = []string{
	"village", "suburb", "quarter", "neighbourhood",
	"hamlet", "residential", "road",
	"county", "city", "town",
}

func (n *Nominatim) ReverseGeocode(ctx context.Context, p geo.Point, lang string) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", p.Lat))
	q.Set("lon", fmt.Sprintf("%f", p.Lng))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	res, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nominatim: status %d", res.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	for _, field := range addressFields {
		if name := body.Address[field]; name != "" {
			return name, nil
		}
	}
	return "", nil
}
