package weatherkit

// The records below mirror the WeatherKit REST schema. Every leaf is a pointer so that
// a field missing from the payload stays nil instead of reading as zero. Lists use
// omitzero: a missing list stays omitted while an empty one re-encodes as [].

// WeatherResponse holds the data sets returned by a weather query. Data sets that were
// not requested, or not available for the location, are nil.
type WeatherResponse struct {
	CurrentWeather   *CurrentWeather         `json:"currentWeather,omitempty"`
	ForecastDaily    *DailyForecast          `json:"forecastDaily,omitempty"`
	ForecastHourly   *HourlyForecast         `json:"forecastHourly,omitempty"`
	ForecastNextHour *NextHourForecast       `json:"forecastNextHour,omitempty"`
	WeatherAlerts    *WeatherAlertCollection `json:"weatherAlerts,omitempty"`
}

// DataSets lists the data sets present in the response, in API order.
func (r *WeatherResponse) DataSets() DataSets {
	if r == nil {
		return nil
	}
	var out DataSets
	if r.CurrentWeather != nil {
		out = append(out, DataSetCurrentWeather)
	}
	if r.ForecastDaily != nil {
		out = append(out, DataSetForecastDaily)
	}
	if r.ForecastHourly != nil {
		out = append(out, DataSetForecastHourly)
	}
	if r.ForecastNextHour != nil {
		out = append(out, DataSetForecastNextHour)
	}
	if r.WeatherAlerts != nil {
		out = append(out, DataSetWeatherAlerts)
	}
	return out
}

type Metadata struct {
	AttributionURL         *string  `json:"attributionURL,omitempty"`
	ExpireTime             *string  `json:"expireTime,omitempty"`
	Language               *string  `json:"language,omitempty"`
	Latitude               *float64 `json:"latitude,omitempty"`
	Longitude              *float64 `json:"longitude,omitempty"`
	ProviderName           *string  `json:"providerName,omitempty"`
	ReadTime               *string  `json:"readTime,omitempty"`
	ReportedTime           *string  `json:"reportedTime,omitempty"`
	TemporarilyUnavailable *bool    `json:"temporarilyUnavailable,omitempty"`
	Units                  *string  `json:"units,omitempty"`
	Version                *int     `json:"version,omitempty"`
}

type CurrentWeather struct {
	Name                   *string   `json:"name,omitempty"`
	Metadata               *Metadata `json:"metadata,omitempty"`
	AsOf                   *string   `json:"asOf,omitempty"`
	CloudCover             *float64  `json:"cloudCover,omitempty"`
	ConditionCode          *string   `json:"conditionCode,omitempty"`
	Daylight               *bool     `json:"daylight,omitempty"`
	Humidity               *float64  `json:"humidity,omitempty"`
	PrecipitationIntensity *float64  `json:"precipitationIntensity,omitempty"`
	Pressure               *float64  `json:"pressure,omitempty"`
	PressureTrend          *string   `json:"pressureTrend,omitempty"`
	Temperature            *float64  `json:"temperature,omitempty"`
	TemperatureApparent    *float64  `json:"temperatureApparent,omitempty"`
	TemperatureDewPoint    *float64  `json:"temperatureDewPoint,omitempty"`
	UVIndex                *int      `json:"uvIndex,omitempty"`
	Visibility             *float64  `json:"visibility,omitempty"`
	WindDirection          *float64  `json:"windDirection,omitempty"`
	WindGust               *float64  `json:"windGust,omitempty"`
	WindSpeed              *float64  `json:"windSpeed,omitempty"`
}

type DailyForecast struct {
	Name     *string   `json:"name,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Days     []Day     `json:"days,omitzero"`
}

type Day struct {
	ForecastStart       *string          `json:"forecastStart,omitempty"`
	ForecastEnd         *string          `json:"forecastEnd,omitempty"`
	ConditionCode       *string          `json:"conditionCode,omitempty"`
	MaxUVIndex          *int             `json:"maxUvIndex,omitempty"`
	MoonPhase           *string          `json:"moonPhase,omitempty"`
	Moonrise            *string          `json:"moonrise,omitempty"`
	Moonset             *string          `json:"moonset,omitempty"`
	PrecipitationAmount *float64         `json:"precipitationAmount,omitempty"`
	PrecipitationChance *float64         `json:"precipitationChance,omitempty"`
	PrecipitationType   *string          `json:"precipitationType,omitempty"`
	SnowfallAmount      *float64         `json:"snowfallAmount,omitempty"`
	SolarMidnight       *string          `json:"solarMidnight,omitempty"`
	SolarNoon           *string          `json:"solarNoon,omitempty"`
	Sunrise             *string          `json:"sunrise,omitempty"`
	SunriseCivil        *string          `json:"sunriseCivil,omitempty"`
	SunriseNautical     *string          `json:"sunriseNautical,omitempty"`
	SunriseAstronomical *string          `json:"sunriseAstronomical,omitempty"`
	Sunset              *string          `json:"sunset,omitempty"`
	SunsetCivil         *string          `json:"sunsetCivil,omitempty"`
	SunsetNautical      *string          `json:"sunsetNautical,omitempty"`
	SunsetAstronomical  *string          `json:"sunsetAstronomical,omitempty"`
	TemperatureMax      *float64         `json:"temperatureMax,omitempty"`
	TemperatureMin      *float64         `json:"temperatureMin,omitempty"`
	DaytimeForecast     *DayPartForecast `json:"daytimeForecast,omitempty"`
	OvernightForecast   *DayPartForecast `json:"overnightForecast,omitempty"`
	RestOfDayForecast   *DayPartForecast `json:"restOfDayForecast,omitempty"`
}

// DayPartForecast is the shape shared by the daytime, overnight and rest-of-day summaries.
type DayPartForecast struct {
	ForecastStart       *string  `json:"forecastStart,omitempty"`
	ForecastEnd         *string  `json:"forecastEnd,omitempty"`
	CloudCover          *float64 `json:"cloudCover,omitempty"`
	ConditionCode       *string  `json:"conditionCode,omitempty"`
	Humidity            *float64 `json:"humidity,omitempty"`
	PrecipitationAmount *float64 `json:"precipitationAmount,omitempty"`
	PrecipitationChance *float64 `json:"precipitationChance,omitempty"`
	PrecipitationType   *string  `json:"precipitationType,omitempty"`
	SnowfallAmount      *float64 `json:"snowfallAmount,omitempty"`
	WindDirection       *float64 `json:"windDirection,omitempty"`
	WindSpeed           *float64 `json:"windSpeed,omitempty"`
}

type HourlyForecast struct {
	Name     *string   `json:"name,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Hours    []Hour    `json:"hours,omitzero"`
}

type Hour struct {
	ForecastStart          *string  `json:"forecastStart,omitempty"`
	CloudCover             *float64 `json:"cloudCover,omitempty"`
	ConditionCode          *string  `json:"conditionCode,omitempty"`
	Daylight               *bool    `json:"daylight,omitempty"`
	Humidity               *float64 `json:"humidity,omitempty"`
	PrecipitationAmount    *float64 `json:"precipitationAmount,omitempty"`
	PrecipitationIntensity *float64 `json:"precipitationIntensity,omitempty"`
	PrecipitationChance    *float64 `json:"precipitationChance,omitempty"`
	PrecipitationType      *string  `json:"precipitationType,omitempty"`
	Pressure               *float64 `json:"pressure,omitempty"`
	PressureTrend          *string  `json:"pressureTrend,omitempty"`
	SnowfallIntensity      *float64 `json:"snowfallIntensity,omitempty"`
	SnowfallAmount         *float64 `json:"snowfallAmount,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"`
	TemperatureApparent    *float64 `json:"temperatureApparent,omitempty"`
	TemperatureDewPoint    *float64 `json:"temperatureDewPoint,omitempty"`
	UVIndex                *int     `json:"uvIndex,omitempty"`
	Visibility             *float64 `json:"visibility,omitempty"`
	WindDirection          *float64 `json:"windDirection,omitempty"`
	WindGust               *float64 `json:"windGust,omitempty"`
	WindSpeed              *float64 `json:"windSpeed,omitempty"`
}

type NextHourForecast struct {
	Name          *string                 `json:"name,omitempty"`
	Metadata      *Metadata               `json:"metadata,omitempty"`
	ForecastStart *string                 `json:"forecastStart,omitempty"`
	ForecastEnd   *string                 `json:"forecastEnd,omitempty"`
	Minutes       []ForecastMinute        `json:"minutes,omitzero"`
	Summary       []ForecastPeriodSummary `json:"summary,omitzero"`
}

type ForecastMinute struct {
	StartTime              *string  `json:"startTime,omitempty"`
	PrecipitationChance    *float64 `json:"precipitationChance,omitempty"`
	PrecipitationIntensity *float64 `json:"precipitationIntensity,omitempty"`
}

type ForecastPeriodSummary struct {
	StartTime              *string  `json:"startTime,omitempty"`
	EndTime                *string  `json:"endTime,omitempty"`
	Condition              *string  `json:"condition,omitempty"`
	PrecipitationChance    *float64 `json:"precipitationChance,omitempty"`
	PrecipitationIntensity *float64 `json:"precipitationIntensity,omitempty"`
}

type WeatherAlertCollection struct {
	Name       *string               `json:"name,omitempty"`
	Metadata   *Metadata             `json:"metadata,omitempty"`
	DetailsURL *string               `json:"detailsUrl,omitempty"`
	Alerts     []WeatherAlertSummary `json:"alerts,omitzero"`
}

type WeatherAlertSummary struct {
	ID             *string  `json:"id,omitempty"`
	AreaID         *string  `json:"areaId,omitempty"`
	AreaName       *string  `json:"areaName,omitempty"`
	Certainty      *string  `json:"certainty,omitempty"`
	CountryCode    *string  `json:"countryCode,omitempty"`
	Description    *string  `json:"description,omitempty"`
	DetailsURL     *string  `json:"detailsUrl,omitempty"`
	EffectiveTime  *string  `json:"effectiveTime,omitempty"`
	EventEndTime   *string  `json:"eventEndTime,omitempty"`
	EventOnsetTime *string  `json:"eventOnsetTime,omitempty"`
	ExpireTime     *string  `json:"expireTime,omitempty"`
	IssuedTime     *string  `json:"issuedTime,omitempty"`
	Responses      []string `json:"responses,omitzero"`
	Severity       *string  `json:"severity,omitempty"`
	Source         *string  `json:"source,omitempty"`
	Urgency        *string  `json:"urgency,omitempty"`
}
