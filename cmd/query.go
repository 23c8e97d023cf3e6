package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weatherkit/pkg/weatherkit"
)

type coordinateFlags struct {
	lat float64
	lng float64
}

func (f *coordinateFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude in decimal degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func (f *coordinateFlags) coordinate() (weatherkit.Coordinate, error) {
	if f.lat < -90 || f.lat > 90 {
		return weatherkit.Coordinate{}, fmt.Errorf("latitude %v out of range [-90, 90]", f.lat)
	}
	if f.lng < -180 || f.lng > 180 {
		return weatherkit.Coordinate{}, fmt.Errorf("longitude %v out of range [-180, 180]", f.lng)
	}
	return weatherkit.Coordinate{Latitude: f.lat, Longitude: f.lng}, nil
}

func newAvailabilityCmd() *cobra.Command {
	var (
		coords  coordinateFlags
		country string
	)

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "List the data sets WeatherKit offers for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coords.coordinate()
			if err != nil {
				return err
			}

			svc, err := newWeatherService()
			if err != nil {
				return err
			}

			sets, err := svc.Availability(cmd.Context(), coord, country)
			if err != nil {
				return err
			}
			if sets == nil {
				sets = weatherkit.DataSets{}
			}
			return writeJSON(cmd, sets)
		},
	}

	coords.register(cmd)
	cmd.Flags().StringVar(&country, "country", "", "ISO country code (default: apple.country)")

	return cmd
}

func newForecastCmd() *cobra.Command {
	var (
		coords   coordinateFlags
		dataSets string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fetch weather data sets for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coords.coordinate()
			if err != nil {
				return err
			}
			sets, err := weatherkit.ParseDataSets(dataSets)
			if err != nil {
				return err
			}

			svc, err := newWeatherService()
			if err != nil {
				return err
			}

			weather, err := svc.Forecast(cmd.Context(), coord, sets)
			if err != nil {
				return err
			}
			return writeJSON(cmd, weather)
		},
	}

	coords.register(cmd)
	cmd.Flags().StringVar(&dataSets, "datasets", "", "comma separated data sets (default: "+weatherkit.DefaultForecastDataSets.String()+")")

	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		coords   coordinateFlags
		country  string
		dataSets string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch availability and forecast for a location in one call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coords.coordinate()
			if err != nil {
				return err
			}
			sets, err := weatherkit.ParseDataSets(dataSets)
			if err != nil {
				return err
			}

			svc, err := newWeatherService()
			if err != nil {
				return err
			}

			report, err := svc.Report(cmd.Context(), coord, country, sets)
			if err != nil {
				return err
			}
			return writeJSON(cmd, report)
		},
	}

	coords.register(cmd)
	cmd.Flags().StringVar(&country, "country", "", "ISO country code (default: apple.country)")
	cmd.Flags().StringVar(&dataSets, "datasets", "", "comma separated data sets")

	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
