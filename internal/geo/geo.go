package geo

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Location represents a geographic coordinate.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// IsZero reports whether the location carries no usable coordinate.
func (l Location) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0
}

// Provider defines the interface for obtaining the current location.
type Provider interface {
	GetLocation() (Location, error)
}

// StaticProvider implements Provider with a fixed location.
type StaticProvider struct {
	Lat float64
	Lng float64
}

// NewStaticProvider creates a provider that always returns the same location.
func NewStaticProvider(lat, lng float64) *StaticProvider {
	return &StaticProvider{
		Lat: lat,
		Lng: lng,
	}
}

// GetLocation returns the fixed location.
func (s *StaticProvider) GetLocation() (Location, error) {
	return Location{
		Latitude:  s.Lat,
		Longitude: s.Lng,
	}, nil
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(a, b Location) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	deltaLat := toRadians(b.Latitude - a.Latitude)
	deltaLng := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Round5 rounds a coordinate component to 5 decimal places (~1.1 m),
// absorbing GPS and geocoding jitter when coordinates are compared.
func Round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
