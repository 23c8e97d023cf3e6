package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weatherkit/internal/server/utils"
	"github.com/vzahanych/weatherkit/internal/service"
	"github.com/vzahanych/weatherkit/pkg/weatherkit"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type WeatherHandler struct {
	service service.WeatherService
	logger  *zap.Logger
}

func NewWeatherHandler(svc service.WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: svc,
		logger:  logger,
	}
}

// GetAvailability serves GET /v1/availability.
func (h *WeatherHandler) GetAvailability(c *gin.Context) {
	reqLogger := h.requestLogger(c)

	var req AvailabilityRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}
	coord := weatherkit.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}

	reqLogger.Info("Processing availability request",
		zap.Stringer("coordinate", coord),
		zap.String("country", req.Country))

	sets, err := h.service.Availability(utils.GetContextFromGinContext(c), coord, req.Country)
	if err != nil {
		h.writeError(c, reqLogger, err)
		return
	}
	if sets == nil {
		sets = weatherkit.DataSets{}
	}

	c.JSON(http.StatusOK, sets)
}

// GetWeather serves GET /v1/weather.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	reqLogger := h.requestLogger(c)

	var req WeatherRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}
	coord := weatherkit.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	// Already checked by the datasets validator.
	dataSets, _ := weatherkit.ParseDataSets(req.DataSets)

	reqLogger.Info("Processing weather request",
		zap.Stringer("coordinate", coord),
		zap.Stringer("data_sets", dataSets))

	weather, err := h.service.Forecast(utils.GetContextFromGinContext(c), coord, dataSets)
	if err != nil {
		h.writeError(c, reqLogger, err)
		return
	}

	reqLogger.Info("Weather request completed successfully",
		zap.Stringer("returned", weather.DataSets()))
	c.JSON(http.StatusOK, weather)
}

// GetReport serves GET /v1/report.
func (h *WeatherHandler) GetReport(c *gin.Context) {
	reqLogger := h.requestLogger(c)

	var req ReportRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}
	coord := weatherkit.Coordinate{Latitude: *req.Lat, Longitude: *req.Lng}
	dataSets, _ := weatherkit.ParseDataSets(req.DataSets)

	report, err := h.service.Report(utils.GetContextFromGinContext(c), coord, req.Country, dataSets)
	if err != nil {
		h.writeError(c, reqLogger, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *WeatherHandler) requestLogger(c *gin.Context) *zap.Logger {
	return h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))
}

// bind decodes and validates the query into req. It writes a 400 and returns
// false when the query is unusable.
func (h *WeatherHandler) bind(c *gin.Context, reqLogger *zap.Logger, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request parameters",
			Code:      "INVALID_PARAMS",
			Details:   err.Error(),
			RequestID: utils.GetRequestIDFromGinContext(c),
		})
		return false
	}

	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Any("errors", verrs))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request parameters",
			Code:      "INVALID_PARAMS",
			Details:   verrs,
			RequestID: utils.GetRequestIDFromGinContext(c),
		})
		return false
	}
	return true
}

func (h *WeatherHandler) writeError(c *gin.Context, reqLogger *zap.Logger, err error) {
	status, resp := errorResponse(err)
	resp.RequestID = utils.GetRequestIDFromGinContext(c)

	_ = c.Error(err)
	utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("error.code", resp.Code))
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		reqLogger.Error("Weather request failed", zap.Int("status", status), zap.Error(err))
	} else {
		reqLogger.Warn("Weather request failed", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, resp)
}

// errorResponse maps service errors to an HTTP status and body.
func errorResponse(err error) (int, ErrorResponse) {
	var (
		signErr  *weatherkit.SigningError
		parseErr *weatherkit.ParseError
		reqErr   *weatherkit.RequestError
		netErr   net.Error
	)

	switch {
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: "WeatherKit is temporarily unavailable",
			Code:  "UPSTREAM_UNAVAILABLE",
		}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout, ErrorResponse{
			Error: "WeatherKit did not respond in time",
			Code:  "UPSTREAM_TIMEOUT",
		}
	case errors.As(err, &signErr):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to sign developer token",
			Code:    "TOKEN_ERROR",
			Details: signErr.Error(),
		}
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, ErrorResponse{
			Error:   "Unexpected response from WeatherKit",
			Code:    "UPSTREAM_PARSE_ERROR",
			Details: fmt.Sprintf("%s: %v", parseErr.Op, parseErr.Err),
		}
	case errors.As(err, &reqErr):
		return http.StatusBadGateway, ErrorResponse{
			Error:          "WeatherKit request failed",
			Code:           "UPSTREAM_ERROR",
			Details:        reqErr.Error(),
			UpstreamStatus: reqErr.StatusCode,
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to fetch weather data",
			Code:  "INTERNAL_ERROR",
		}
	}
}
