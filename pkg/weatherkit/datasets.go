package weatherkit

import (
	"fmt"
	"strings"
)

// DataSet names a category of weather data that can be requested from WeatherKit.
type DataSet string

const (
	DataSetCurrentWeather   DataSet = "currentWeather"
	DataSetForecastDaily    DataSet = "forecastDaily"
	DataSetForecastHourly   DataSet = "forecastHourly"
	DataSetForecastNextHour DataSet = "forecastNextHour"
	DataSetWeatherAlerts    DataSet = "weatherAlerts"
)

// AllDataSets lists every data set known to this package, in API order.
var AllDataSets = DataSets{
	DataSetCurrentWeather,
	DataSetForecastDaily,
	DataSetForecastHourly,
	DataSetForecastNextHour,
	DataSetWeatherAlerts,
}

// DefaultForecastDataSets is requested by Forecast when no data sets are given.
var DefaultForecastDataSets = DataSets{DataSetForecastDaily, DataSetForecastHourly}

// Valid reports whether d is one of the known data set names.
func (d DataSet) Valid() bool {
	for _, known := range AllDataSets {
		if d == known {
			return true
		}
	}
	return false
}

// DataSets is an ordered selection of data sets.
type DataSets []DataSet

// String joins the data set names with commas, preserving order.
func (ds DataSets) String() string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = string(d)
	}
	return strings.Join(names, ",")
}

// Contains reports whether d is part of the selection.
func (ds DataSets) Contains(d DataSet) bool {
	for _, v := range ds {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDataSets parses a comma separated list of data set names.
// Blank entries are skipped, duplicates are dropped and unknown names are rejected.
func ParseDataSets(csv string) (DataSets, error) {
	var out DataSets
	for _, part := range strings.Split(csv, ",") {
		name := DataSet(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !name.Valid() {
			return nil, fmt.Errorf("weatherkit: unknown data set %q", name)
		}
		if out.Contains(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}
