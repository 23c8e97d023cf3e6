package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vzahanych/weatherkit/internal/config"
	"github.com/vzahanych/weatherkit/internal/metrics"
	"github.com/vzahanych/weatherkit/pkg/logger"
	"github.com/vzahanych/weatherkit/pkg/telemetry"
	"github.com/vzahanych/weatherkit/pkg/weatherkit"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Report combines availability and forecast for one location.
type Report struct {
	Coordinate   weatherkit.Coordinate       `json:"coordinate"`
	Country      string                      `json:"country"`
	Availability weatherkit.DataSets         `json:"availability"`
	Weather      *weatherkit.WeatherResponse `json:"weather"`
	GeneratedAt  time.Time                   `json:"generatedAt"`
}

// WeatherKitService calls WeatherKit with a freshly signed token per request.
type WeatherKitService struct {
	client   *weatherkit.Client
	issuer   *weatherkit.TokenIssuer
	tokenTTL time.Duration
	country  string
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	now      func() time.Time
}

func NewWeatherKitService(cfg *config.Config, log *zap.Logger, tele *telemetry.Telemetry) (*WeatherKitService, error) {
	if log == nil {
		log = logger.NewNop().Logger
	}

	creds, err := cfg.Apple.Credentials()
	if err != nil {
		return nil, err
	}

	issuer, err := weatherkit.NewTokenIssuer(creds)
	if err != nil {
		return nil, err
	}

	client, err := weatherkit.NewClient(
		weatherkit.WithBaseURL(cfg.Apple.BaseURL),
		weatherkit.WithTimeout(cfg.Apple.RequestTimeout()),
		weatherkit.WithLanguage(cfg.Apple.Language),
		weatherkit.WithLogger(log.Named("weatherkit")),
		weatherkit.WithTracer(tele.GetTracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("create weatherkit client: %w", err)
	}

	country := cfg.Apple.Country
	if country == "" {
		country = weatherkit.DefaultCountry
	}

	return &WeatherKitService{
		client:   client,
		issuer:   issuer,
		tokenTTL: cfg.Apple.TokenLifetime(),
		country:  country,
		breaker:  newBreaker(cfg.Breaker, log),
		logger:   log,
		tele:     tele,
		now:      time.Now,
	}, nil
}

// Token signs a developer token with the configured lifetime.
func (s *WeatherKitService) Token() (string, error) {
	return s.token(s.tokenTTL)
}

// TokenWithTTL signs a developer token valid for ttl.
func (s *WeatherKitService) TokenWithTTL(ttl time.Duration) (string, error) {
	return s.token(ttl)
}

// VerifyToken checks a token against the public half of the configured key.
func (s *WeatherKitService) VerifyToken(token string) (*weatherkit.TokenClaims, error) {
	return weatherkit.VerifyToken(token, s.issuer.PublicKey(), nil)
}

func (s *WeatherKitService) token(ttl time.Duration) (string, error) {
	token, err := s.issuer.IssueToken(ttl)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.Inc()
	return token, nil
}

func (s *WeatherKitService) Availability(ctx context.Context, coord weatherkit.Coordinate, country string) (weatherkit.DataSets, error) {
	if country == "" {
		country = s.country
	}

	var result weatherkit.DataSets
	err := s.call(ctx, "availability", func(token string) error {
		var err error
		result, err = s.client.Availability(ctx, token, coord, country)
		return err
	})
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Availability request failed",
			zap.Stringer("coordinate", coord),
			zap.String("country", country),
			zap.Error(err))
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Debug("Availability fetched",
		zap.Stringer("coordinate", coord),
		zap.Stringer("data_sets", result))
	return result, nil
}

func (s *WeatherKitService) Forecast(ctx context.Context, coord weatherkit.Coordinate, dataSets weatherkit.DataSets) (*weatherkit.WeatherResponse, error) {
	var result *weatherkit.WeatherResponse
	err := s.call(ctx, "forecast", func(token string) error {
		var err error
		result, err = s.client.Forecast(ctx, token, coord, dataSets)
		return err
	})
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Forecast request failed",
			zap.Stringer("coordinate", coord),
			zap.Stringer("data_sets", dataSets),
			zap.Error(err))
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Debug("Forecast fetched",
		zap.Stringer("coordinate", coord),
		zap.Stringer("returned", result.DataSets()))
	return result, nil
}

// Report fetches availability and forecast concurrently. Both must succeed.
func (s *WeatherKitService) Report(ctx context.Context, coord weatherkit.Coordinate, country string, dataSets weatherkit.DataSets) (*Report, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "weatherkit.Report")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", coord.Latitude),
		attribute.Float64("lng", coord.Longitude),
	)

	if country == "" {
		country = s.country
	}

	var (
		wg           sync.WaitGroup
		availability weatherkit.DataSets
		weather      *weatherkit.WeatherResponse
		availErr     error
		forecastErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		availability, availErr = s.Availability(ctx, coord, country)
	}()
	go func() {
		defer wg.Done()
		weather, forecastErr = s.Forecast(ctx, coord, dataSets)
	}()
	wg.Wait()

	if err := errors.Join(availErr, forecastErr); err != nil {
		s.tele.RecordError(ctx, err, map[string]string{"coordinate": coord.String()})
		return nil, err
	}

	span.SetAttributes(attribute.Int("available_data_sets", len(availability)))

	return &Report{
		Coordinate:   coord,
		Country:      country,
		Availability: availability,
		Weather:      weather,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

func (s *WeatherKitService) call(ctx context.Context, op string, fn func(token string) error) error {
	start := time.Now()

	err := guard(s.breaker, func() error {
		token, err := s.Token()
		if err != nil {
			return err
		}
		return fn(token)
	})

	metrics.UpstreamCallsTotal.WithLabelValues(op, outcome(err)).Inc()
	metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		s.tele.RecordError(ctx, err, map[string]string{"operation": op})
	}
	return err
}
