package discovery

import (
	"context"
	"math"
	"sort"
	"strings"

	"rentlens/internal/config"
	"rentlens/internal/pkg/geo"
	"rentlens/internal/repository"
)

type Service struct {
	products        ProductFinder
	defaultRadiusKm float64
}

func NewService(products ProductFinder, defaultRadiusKm float64) *Service {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = 20
	}
	return &Service{products: products, defaultRadiusKm: defaultRadiusKm}
}

// FindNearby returns available products whose owners sit within the
// radius, every filter AND-ed, sorted ascending by distance. The
// caller's own listings are excluded via excludeOwnerID.
func (s *Service) FindNearby(ctx context.Context, req NearbyRequest, excludeOwnerID int64) (*NearbyResponse, error) {
	if !geo.ValidCoords(req.Latitude, req.Longitude) {
		return nil, ErrInvalidCoords
	}

	radius := clampRadius(req.RadiusKm, s.defaultRadiusKm)

	q := boundingBox(req.Latitude, req.Longitude, radius)
	q.Search = strings.TrimSpace(req.Search)
	q.Category = strings.ToLower(strings.TrimSpace(req.Category))
	q.ExcludeOwnerID = excludeOwnerID

	candidates, err := s.products.FindNearbyCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	// The SQL bounding box over-selects corners; the Haversine cut is
	// the authoritative radius filter.
	out := make([]NearbyProduct, 0, len(candidates))
	for _, c := range candidates {
		d := geo.Distance(req.Latitude, req.Longitude, c.OwnerLat, c.OwnerLon)
		if d > radius {
			continue
		}
		out = append(out, NearbyProduct{Product: c.Product, DistanceKm: d})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })

	return &NearbyResponse{
		Products: out,
		RadiusKm: radius,
		Total:    len(out),
	}, nil
}

// clampRadius snaps the requested radius into the supported 5..50 km
// window; zero means "use the default".
func clampRadius(requested, def float64) float64 {
	if requested == 0 {
		return def
	}
	if requested < config.MinSearchRadiusKm {
		return config.MinSearchRadiusKm
	}
	if requested > config.MaxSearchRadiusKm {
		return config.MaxSearchRadiusKm
	}
	return requested
}

// boundingBox converts a radius around a point into lat/lon bounds for
// the SQL prefilter. Longitude degrees shrink with latitude; near the
// poles the longitude span degenerates, so it falls back to the full
// range.
func boundingBox(lat, lon, radiusKm float64) repository.NearbyQuery {
	latDelta := radiusKm / 111.0

	lonDelta := 180.0
	if cos := math.Cos(lat * math.Pi / 180); cos > 1e-6 {
		lonDelta = radiusKm / (111.0 * cos)
	}

	return repository.NearbyQuery{
		MinLat: math.Max(lat-latDelta, -90),
		MaxLat: math.Min(lat+latDelta, 90),
		MinLon: math.Max(lon-lonDelta, -180),
		MaxLon: math.Min(lon+lonDelta, 180),
	}
}
