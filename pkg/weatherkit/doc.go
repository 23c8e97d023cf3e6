// Package weatherkit is a client for the Apple WeatherKit REST API.
//
// It signs ES256 developer tokens from a team's credentials and queries data set
// availability and weather forecasts for a coordinate. Tokens are issued on demand;
// renewal, caching and retries are left to the caller.
//
// Example usage:
//
//	issuer, err := weatherkit.NewTokenIssuer(weatherkit.Credentials{
//	    TeamID:     "AT7K7Y62H6",
//	    ServiceID:  "com.example.weather",
//	    KeyID:      "3JSPU8AVG9",
//	    PrivateKey: pemBytes,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := issuer.IssueToken(time.Minute)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, _ := weatherkit.NewClient()
//	coord := weatherkit.Coordinate{Latitude: 38.638, Longitude: -121.259}
//	weather, err := client.Forecast(ctx, token, coord, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if weather.ForecastDaily != nil {
//	    fmt.Println(len(weather.ForecastDaily.Days))
//	}
package weatherkit
