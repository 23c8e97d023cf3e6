package weatherkit

import "strconv"

// Coordinate is a geographic position in decimal degrees.
// Range checking is left to the remote service.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return formatDegrees(c.Latitude) + "," + formatDegrees(c.Longitude)
}

// pathSegments renders latitude and longitude with the shortest exact decimal form.
func (c Coordinate) pathSegments() (string, string) {
	return formatDegrees(c.Latitude), formatDegrees(c.Longitude)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
