package domain

import "math"

const (
	kmPerDegree        = 111.0
	exposureDamping    = 0.3
	urbanThreshold     = 10000.0
	ruralDensityPerKm2 = 20.0
)

// GeoPoint is a WGS-84 coordinate in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// PopulationCenter is a reference city used as a proxy for population density.
type PopulationCenter struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Population float64 `json:"population"`
	Density    float64 `json:"density"` // people/km²
}

var referenceCenters = [...]PopulationCenter{
	{Name: "New York", Lat: 40.7128, Lng: -74.0060, Population: 8400000, Density: 10000},
	{Name: "London", Lat: 51.5074, Lng: -0.1278, Population: 9000000, Density: 5600},
	{Name: "Tokyo", Lat: 35.6762, Lng: 139.6503, Population: 14000000, Density: 6200},
	{Name: "Mumbai", Lat: 19.0760, Lng: 72.8777, Population: 12400000, Density: 20700},
	{Name: "São Paulo", Lat: -23.5505, Lng: -46.6333, Population: 12300000, Density: 7900},
}

// ReferenceCenters returns a copy of the fixed reference table.
func ReferenceCenters() []PopulationCenter {
	out := make([]PopulationCenter, len(referenceCenters))
	copy(out, referenceCenters[:])
	return out
}

// planarDistanceKm approximates distance with a flat 111 km per degree on
// both axes.
func planarDistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return math.Hypot(lat1-lat2, lng1-lng2) * kmPerDegree
}

// EstimatePopulation estimates how many people live within radiusKm of the
// point. The result is never negative. A NaN, infinite, or negative radius is
// treated as zero.
//
// The rural floor only applies while urban exposure is under 10,000, so the
// estimate can drop when a growing radius first reaches a city: the floor
// switches off before the city's share exceeds it.
func EstimatePopulation(lat, lng, radiusKm float64) int64 {
	if !isFinite(radiusKm) || radiusKm < 0 {
		radiusKm = 0
	}

	estimate := urbanExposure(lat, lng, radiusKm)
	if estimate < urbanThreshold {
		area := math.Pi * radiusKm * radiusKm
		estimate = math.Max(estimate, area*ruralDensityPerKm2)
	}

	return int64(math.Round(estimate))
}

// urbanExposure sums the damped, overlap-weighted population of every
// reference center closer than radiusKm. Centers are not deduplicated.
func urbanExposure(lat, lng, radiusKm float64) float64 {
	var sum float64
	for _, city := range referenceCenters {
		distance := planarDistanceKm(lat, lng, city.Lat, city.Lng)
		if distance < radiusKm {
			overlap := math.Max(0, 1-distance/radiusKm)
			sum += city.Population * overlap * exposureDamping
		}
	}
	return sum
}

// EstimatePopulationAt is EstimatePopulation for a GeoPoint.
func EstimatePopulationAt(p GeoPoint, radiusKm float64) int64 {
	return EstimatePopulation(p.Lat, p.Lng, radiusKm)
}
