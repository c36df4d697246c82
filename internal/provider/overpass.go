package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripsmith/internal/domain"
)

// Overpass searches for nearby places via the OpenStreetMap Overpass API.
type Overpass struct {
	baseURL string
	client  *http.Client
}

// NewOverpass constructs an Overpass adapter. baseURL is the full
// interpreter endpoint (e.g. "https://overpass-api.de/api/interpreter").
func NewOverpass(baseURL string, timeout time.Duration) *Overpass {
	return &Overpass{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// categorySelectors maps the sampler's place-category keywords to Overpass
// tag selectors. Unknown categories fall back to generic tourist attractions
// so a misspelled interest still returns something plausible.
var categorySelectors = map[string]string{
	"park":            `["leisure"="park"]`,
	"natural_feature": `["natural"]["name"]`,
	"campground":      `["tourism"="camp_site"]`,
	"museum":          `["tourism"="museum"]`,
	"art_gallery":     `["tourism"="gallery"]`,
	"restaurant":      `["amenity"="restaurant"]`,
	"cafe":            `["amenity"="cafe"]`,
	"bar":             `["amenity"="bar"]`,
	"viewpoint":       `["tourism"="viewpoint"]`,
	"castle":          `["historic"="castle"]`,
	"monument":        `["historic"="monument"]`,
	"beach":           `["natural"="beach"]`,
	"zoo":             `["tourism"="zoo"]`,
	"theme_park":      `["tourism"="theme_park"]`,
}

const defaultSelector = `["tourism"="attraction"]`

type overpassResponse struct {
	Elements []struct {
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Center struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags struct {
			Name  string `json:"name"`
			Image string `json:"image"`
		} `json:"tags"`
	} `json:"elements"`
}

// NearbySearch returns named places of the given category within radiusKm of
// point. Unnamed OSM elements are skipped; OSM carries no ratings so Rating
// is always nil.
func (o *Overpass) NearbySearch(ctx context.Context, point domain.Coordinate, radiusKm float64, category string) ([]Place, error) {
	selector, ok := categorySelectors[category]
	if !ok {
		selector = defaultSelector
	}

	radiusM := int(radiusKm * 1000)
	query := fmt.Sprintf(
		`[out:json][timeout:10];nwr%s["name"](around:%d,%f,%f);out center 10;`,
		selector, radiusM, point.Lat, point.Lng,
	)

	var body overpassResponse
	endpoint := o.baseURL + "?data=" + url.QueryEscape(query)
	if err := getJSON(ctx, o.client, endpoint, &body); err != nil {
		return nil, fmt.Errorf("provider.Overpass.NearbySearch: %w", err)
	}

	places := make([]Place, 0, len(body.Elements))
	for _, el := range body.Elements {
		if el.Tags.Name == "" {
			continue
		}
		// Ways and relations carry their location in center; nodes inline.
		coord := domain.Coordinate{Lat: el.Lat, Lng: el.Lon}
		if coord.IsZero() {
			coord = domain.Coordinate{Lat: el.Center.Lat, Lng: el.Center.Lon}
		}
		var photos []string
		if el.Tags.Image != "" {
			photos = []string{el.Tags.Image}
		}
		places = append(places, Place{
			Name:       el.Tags.Name,
			Coordinate: coord,
			PhotoRefs:  photos,
		})
	}
	return places, nil
}
