// Package geo provides stateless great-circle and vector navigation math
// used throughout the engine. All distances are nautical miles, all speeds
// knots, all angles degrees.
package geo

import "math"

// EarthRadiusNm is the mean Earth radius in nautical miles.
const EarthRadiusNm = 3440.065

// Position is a geographic coordinate.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the position is within coordinate bounds.
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// DistanceNm returns the haversine great-circle distance between two
// positions in nautical miles.
func DistanceNm(a, b Position) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusNm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BearingDeg returns the initial great-circle bearing from a to b,
// normalized to [0, 360).
func BearingDeg(a, b Position) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeDeg(degrees(math.Atan2(y, x)))
}

// ETAMinutes returns the time in minutes to cover distanceNm at speedKts.
// Returns 0 when speed is zero or negative, never a negative or infinite
// value.
func ETAMinutes(distanceNm, speedKts float64) float64 {
	if speedKts <= 0 || distanceNm <= 0 {
		return 0
	}
	return distanceNm / speedKts * 60
}

// GroundTrack is the result of combining boat motion with a tidal current.
type GroundTrack struct {
	CourseDeg float64
	SpeedKts  float64
}

// CourseWithCurrent combines the boat velocity along desiredCourseDeg with a
// current vector and returns the resulting course over ground and speed over
// ground. The course is normalized to [0, 360).
func CourseWithCurrent(desiredCourseDeg, boatSpeedKts, currentSpeedKts, currentDirectionDeg float64) GroundTrack {
	boatRad := radians(desiredCourseDeg)
	curRad := radians(currentDirectionDeg)

	// North/east velocity components of boat and current.
	north := boatSpeedKts*math.Cos(boatRad) + currentSpeedKts*math.Cos(curRad)
	east := boatSpeedKts*math.Sin(boatRad) + currentSpeedKts*math.Sin(curRad)

	sog := math.Sqrt(north*north + east*east)
	course := NormalizeDeg(degrees(math.Atan2(east, north)))

	return GroundTrack{CourseDeg: course, SpeedKts: sog}
}

// Interpolate returns the point at the given fraction (0..1) along the
// straight line from a to b. Linear in lat/lon, intended for short segment
// sampling, not great-circle interpolation.
func Interpolate(a, b Position, fraction float64) Position {
	return Position{
		Lat: a.Lat + (b.Lat-a.Lat)*fraction,
		Lon: a.Lon + (b.Lon-a.Lon)*fraction,
	}
}

// NormalizeDeg folds an angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
