package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"tripsmith/internal/domain"
	"tripsmith/internal/provider"
)

// sampleFractions are the fixed fractional positions along the route's path
// length where nearby-search queries are centered, so stops spread across
// the whole route rather than clustering near either end.
var sampleFractions = []float64{0.2, 0.4, 0.6, 0.8}

// maxCategoriesPerPoint bounds the external queries issued per sample point.
const maxCategoriesPerPoint = 2

// dupeDistanceKm is the proximity threshold under which two stops with
// different names are still considered duplicates.
const dupeDistanceKm = 0.25

// interestCategories maps a traveller interest tag to place-category
// keywords. Categories are tried in listed order. Unknown tags are ignored.
var interestCategories = map[string][]string{
	"outdoorsSport": {"park", "natural_feature", "campground"},
	"cultureMuseum": {"museum", "art_gallery", "monument"},
	"foodDrink":     {"restaurant", "cafe", "bar"},
	"sightseeing":   {"viewpoint", "castle", "monument"},
	"natureBeach":   {"beach", "natural_feature", "park"},
	"familyFun":     {"zoo", "theme_park", "park"},
}

// Sampler discovers stops along a route by sampling points at fixed
// fractions and issuing bounded nearby-search queries per interest category.
type Sampler struct {
	places   provider.PlaceProvider // nil means no provider configured
	radiusKm float64
	fanOut   int
	log      *slog.Logger
}

// NewSampler constructs a Sampler. places may be nil, in which case every
// sampling run yields zero stops. radiusKm bounds each query (default 5);
// fanOut bounds concurrent queries (default 4).
func NewSampler(places provider.PlaceProvider, radiusKm float64, fanOut int, log *slog.Logger) *Sampler {
	if radiusKm <= 0 {
		radiusKm = 5
	}
	if fanOut <= 0 {
		fanOut = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{places: places, radiusKm: radiusKm, fanOut: fanOut, log: log}
}

// SampleAlongRoute returns stops discovered near the route, in sample order
// (roughly origin to destination), truncated to maxStops. Zero stops is a
// valid, non-error outcome: provider absence and total query failure both
// yield an empty slice.
func (s *Sampler) SampleAlongRoute(ctx context.Context, route domain.RouteResult, interests []string, maxStops int) []domain.Stop {
	if s.places == nil || len(route.Waypoints) < 2 || maxStops <= 0 {
		return []domain.Stop{}
	}

	categories := categoriesFor(interests)
	if len(categories) == 0 {
		return []domain.Stop{}
	}
	if len(categories) > maxCategoriesPerPoint {
		categories = categories[:maxCategoriesPerPoint]
	}

	// One query slot per sample point so results keep route order no matter
	// which query finishes first.
	found := make([]*domain.Stop, len(sampleFractions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanOut)
	for i, fraction := range sampleFractions {
		point := pointAtFraction(route.Waypoints, fraction)
		g.Go(func() error {
			found[i] = s.searchPoint(gctx, point, categories)
			return nil
		})
	}
	// Workers never return errors; failures are logged and degrade to a nil
	// slot. Wait only synchronizes.
	_ = g.Wait()

	stops := make([]domain.Stop, 0, len(found))
	for _, stop := range found {
		if stop == nil || isDuplicate(stops, *stop) {
			continue
		}
		stops = append(stops, *stop)
	}
	if len(stops) > maxStops {
		stops = stops[:maxStops]
	}
	return stops
}

// searchPoint tries the categories in order at one sample point and returns
// the first hit, or nil when every query failed or came back empty.
func (s *Sampler) searchPoint(ctx context.Context, point domain.Coordinate, categories []string) *domain.Stop {
	for _, category := range categories {
		places, err := s.places.NearbySearch(ctx, point, s.radiusKm, category)
		if err != nil {
			s.log.Debug("nearby search failed", "category", category, "error", err)
			continue
		}
		for _, place := range places {
			if place.Name == "" {
				continue
			}
			// Providers are not trusted to honor the radius they were given.
			if point.DistanceKm(place.Coordinate) > s.radiusKm {
				s.log.Debug("dropping place outside search radius", "place", place.Name, "category", category)
				continue
			}
			return &domain.Stop{
				Name:       place.Name,
				Coordinate: place.Coordinate,
				Category:   category,
				Rating:     place.Rating,
				PhotoRefs:  place.PhotoRefs,
			}
		}
	}
	return nil
}

// categoriesFor unions the category keywords of the selected interests,
// preserving first-seen order and dropping duplicates and unknown tags.
func categoriesFor(interests []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, interest := range interests {
		for _, category := range interestCategories[interest] {
			if seen[category] {
				continue
			}
			seen[category] = true
			out = append(out, category)
		}
	}
	return out
}

// isDuplicate reports whether candidate repeats an already-added stop,
// either by name (case-insensitive) or by proximity.
func isDuplicate(stops []domain.Stop, candidate domain.Stop) bool {
	name := strings.ToLower(strings.TrimSpace(candidate.Name))
	for _, existing := range stops {
		if strings.ToLower(strings.TrimSpace(existing.Name)) == name {
			return true
		}
		if existing.Coordinate.DistanceKm(candidate.Coordinate) < dupeDistanceKm {
			return true
		}
	}
	return false
}

// pointAtFraction walks the polyline and returns the coordinate at the given
// fraction of its total path length, interpolating linearly inside a segment.
func pointAtFraction(waypoints []domain.Coordinate, fraction float64) domain.Coordinate {
	if fraction <= 0 {
		return waypoints[0]
	}
	if fraction >= 1 {
		return waypoints[len(waypoints)-1]
	}

	var total float64
	for i := 1; i < len(waypoints); i++ {
		total += waypoints[i-1].DistanceKm(waypoints[i])
	}
	if total == 0 {
		return waypoints[0]
	}

	target := total * fraction
	var walked float64
	for i := 1; i < len(waypoints); i++ {
		segment := waypoints[i-1].DistanceKm(waypoints[i])
		if segment == 0 {
			continue
		}
		if walked+segment >= target {
			t := (target - walked) / segment
			return domain.Coordinate{
				Lat: waypoints[i-1].Lat + (waypoints[i].Lat-waypoints[i-1].Lat)*t,
				Lng: waypoints[i-1].Lng + (waypoints[i].Lng-waypoints[i-1].Lng)*t,
			}
		}
		walked += segment
	}
	return waypoints[len(waypoints)-1]
}
