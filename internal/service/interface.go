package service

import (
	"context"

	"github.com/vzahanych/weatherkit/pkg/weatherkit"
)

// WeatherService is the upstream weather source the HTTP layer and CLI depend on.
type WeatherService interface {
	Availability(ctx context.Context, coord weatherkit.Coordinate, country string) (weatherkit.DataSets, error)
	Forecast(ctx context.Context, coord weatherkit.Coordinate, dataSets weatherkit.DataSets) (*weatherkit.WeatherResponse, error)
	Report(ctx context.Context, coord weatherkit.Coordinate, country string, dataSets weatherkit.DataSets) (*Report, error)
}
