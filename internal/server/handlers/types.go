package handlers

// AvailabilityRequest is the query of GET /v1/availability.
type AvailabilityRequest struct {
	Lat     *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lng     *float64 `form:"lng" json:"lng" validate:"required,longitude"`
	Country string   `form:"country" json:"country" validate:"omitempty,len=2,alpha"`
}

// WeatherRequest is the query of GET /v1/weather. DataSets is a comma separated
// list; empty means the default forecast data sets.
type WeatherRequest struct {
	Lat      *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lng      *float64 `form:"lng" json:"lng" validate:"required,longitude"`
	DataSets string   `form:"dataSets" json:"dataSets" validate:"omitempty,datasets"`
}

// ReportRequest is the query of GET /v1/report.
type ReportRequest struct {
	Lat      *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lng      *float64 `form:"lng" json:"lng" validate:"required,longitude"`
	Country  string   `form:"country" json:"country" validate:"omitempty,len=2,alpha"`
	DataSets string   `form:"dataSets" json:"dataSets" validate:"omitempty,datasets"`
}

type ErrorResponse struct {
	Error          string      `json:"error"`
	Code           string      `json:"code,omitempty"`
	Details        interface{} `json:"details,omitempty"`
	UpstreamStatus int         `json:"upstreamStatus,omitempty"`
	RequestID      string      `json:"request_id,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}
