package services

import (
	"context"
	"fmt"
	"time"

	"kma-weather-api/internal/models"
	"kma-weather-api/pkg/client"
	"go.uber.org/zap"
)

// UpstreamClient is the transport the service fetches through.
type UpstreamClient interface {
	Fetch(ctx context.Context, endpoint string, p client.QueryParams) (*client.APIResponse, error)
}

// WeatherQuery holds the per-request parameters common to all operations.
// BaseDate/BaseTime left empty are resolved against the endpoint's
// publication schedule.
type WeatherQuery struct {
	Nx        int
	Ny        int
	BaseDate  string
	BaseTime  string
	NumOfRows int
	PageNo    int
}

func (q WeatherQuery) withDefaults() WeatherQuery {
	if q.NumOfRows == 0 {
		q.NumOfRows = 1000
	}
	if q.PageNo == 0 {
		q.PageNo = 1
	}
	return q
}

// WeatherService orchestrates KMA queries: default-time resolution, fetch,
// normalization and the combined fan-out. It is stateless per request.
type WeatherService struct {
	client UpstreamClient
	logger *zap.Logger
}

func NewWeatherService(upstream UpstreamClient, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		client: upstream,
		logger: logger,
	}
}

// UltraShortNowcast fetches the current-observation endpoint, published on
// the hour.
func (s *WeatherService) UltraShortNowcast(ctx context.Context, q WeatherQuery) (*models.WeatherResponse, error) {
	q = q.withDefaults()
	baseDate, baseTime := resolveBaseDateTime(q.BaseDate, q.BaseTime, time.Now(), nowcastBaseTime)

	raw, err := s.client.Fetch(ctx, client.EndpointUltraSrtNcst, client.QueryParams{
		BaseDate:  baseDate,
		BaseTime:  baseTime,
		Nx:        q.Nx,
		Ny:        q.Ny,
		NumOfRows: q.NumOfRows,
		PageNo:    q.PageNo,
	})
	if err != nil {
		return nil, err
	}

	resp, err := normalizeObservation(raw)
	if err != nil {
		s.logger.Error("Nowcast normalization failed",
			zap.Int("nx", q.Nx),
			zap.Int("ny", q.Ny),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// UltraShortForecast fetches the short-range forecast endpoint, published on
// the half-hour.
func (s *WeatherService) UltraShortForecast(ctx context.Context, q WeatherQuery) ([]models.ForecastItem, error) {
	q = q.withDefaults()
	baseDate, baseTime := resolveBaseDateTime(q.BaseDate, q.BaseTime, time.Now(), ultraForecastBaseTime)

	raw, err := s.client.Fetch(ctx, client.EndpointUltraSrtFcst, client.QueryParams{
		BaseDate:  baseDate,
		BaseTime:  baseTime,
		Nx:        q.Nx,
		Ny:        q.Ny,
		NumOfRows: q.NumOfRows,
		PageNo:    q.PageNo,
	})
	if err != nil {
		return nil, err
	}

	return normalizeForecast(raw)
}

// VilageForecast fetches the 3-day forecast endpoint, published at eight
// fixed slots per day.
func (s *WeatherService) VilageForecast(ctx context.Context, q WeatherQuery) ([]models.ForecastItem, error) {
	q = q.withDefaults()
	baseDate, baseTime := resolveBaseDateTime(q.BaseDate, q.BaseTime, time.Now(), vilageBaseTime)

	raw, err := s.client.Fetch(ctx, client.EndpointVilageFcst, client.QueryParams{
		BaseDate:  baseDate,
		BaseTime:  baseTime,
		Nx:        q.Nx,
		Ny:        q.Ny,
		NumOfRows: q.NumOfRows,
		PageNo:    q.PageNo,
	})
	if err != nil {
		return nil, err
	}

	return normalizeForecast(raw)
}

type nowcastResult struct {
	resp *models.WeatherResponse
	err  error
}

type forecastResult struct {
	items []models.ForecastItem
	err   error
}

// CombinedWeather fetches the nowcast and the ultra-short-term forecast
// concurrently and attaches the forecast items to the nowcast envelope.
// The first failure to land fails the whole call; there is no partial result.
func (s *WeatherService) CombinedWeather(ctx context.Context, q WeatherQuery) (*models.WeatherResponse, error) {
	ncstCh := make(chan nowcastResult, 1)
	fcstCh := make(chan forecastResult, 1)

	go func() {
		resp, err := s.UltraShortNowcast(ctx, q)
		ncstCh <- nowcastResult{resp: resp, err: err}
	}()
	go func() {
		items, err := s.UltraShortForecast(ctx, q)
		fcstCh <- forecastResult{items: items, err: err}
	}()

	var resp *models.WeatherResponse
	var items []models.ForecastItem

	for i := 0; i < 2; i++ {
		select {
		case r := <-ncstCh:
			if r.err != nil {
				return nil, r.err
			}
			resp = r.resp
		case r := <-fcstCh:
			if r.err != nil {
				return nil, r.err
			}
			items = r.items
		}
	}

	resp.ForecastItems = items
	return resp, nil
}

// Summary reduces a nowcast response into the six-category rollup. The
// representative base date/time comes from the first item when present,
// otherwise from the caller-supplied values, otherwise from the clock.
func (s *WeatherService) Summary(ctx context.Context, nx, ny int, baseDate, baseTime string) (*models.WeatherSummary, error) {
	resp, err := s.UltraShortNowcast(ctx, WeatherQuery{
		Nx:       nx,
		Ny:       ny,
		BaseDate: baseDate,
		BaseTime: baseTime,
	})
	if err != nil {
		return nil, err
	}

	readings := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		readings[item.Category] = item.ObsrValue
	}

	var usedDate, usedTime string
	if len(resp.Items) > 0 {
		usedDate = resp.Items[0].BaseDate
		usedTime = resp.Items[0].BaseTime
	} else {
		now := time.Now()
		usedDate, usedTime = resolveBaseDateTime(baseDate, baseTime, now, nowcastBaseTime)
	}

	categories := make(map[string]models.CategoryReading, len(readings))
	for code, value := range readings {
		categories[code] = models.CategoryReading{
			Value:       value,
			Description: categoryDescription(code),
		}
	}

	return &models.WeatherSummary{
		Location:      fmt.Sprintf("nx:%d, ny:%d", nx, ny),
		BaseDate:      usedDate,
		BaseTime:      usedTime,
		Temperature:   readings["T1H"],
		Humidity:      readings["REH"],
		Precipitation: readings["RN1"],
		WindDirection: readings["VEC"],
		WindSpeed:     readings["WSD"],
		RawData: &models.SummaryRawData{
			TotalCount: resp.TotalCount,
			Categories: categories,
		},
	}, nil
}
