package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kma-weather-api/internal/models"
	"kma-weather-api/internal/services"
	"kma-weather-api/internal/storage"
	"kma-weather-api/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type fakeWeatherService struct {
	nowcastCalls  int
	combinedCalls int
	err           error
}

func (f *fakeWeatherService) UltraShortNowcast(ctx context.Context, q services.WeatherQuery) (*models.WeatherResponse, error) {
	f.nowcastCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.WeatherResponse{
		ResultCode:    "00",
		ResultMessage: "NORMAL_SERVICE",
		Items: []models.WeatherItem{
			{Category: "T1H", ObsrValue: "15.0", BaseDate: "20231110", BaseTime: "0600", Nx: q.Nx, Ny: q.Ny},
		},
	}, nil
}

func (f *fakeWeatherService) VilageForecast(ctx context.Context, q services.WeatherQuery) ([]models.ForecastItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.ForecastItem{
		{Category: "TMP", FcstValue: "12", FcstDate: "20231111", FcstTime: "1400", BaseDate: "20231110", BaseTime: "0500"},
	}, nil
}

func (f *fakeWeatherService) CombinedWeather(ctx context.Context, q services.WeatherQuery) (*models.WeatherResponse, error) {
	f.combinedCalls++
	if f.err != nil {
		return nil, f.err
	}
	resp, _ := f.UltraShortNowcast(ctx, q)
	resp.ForecastItems = []models.ForecastItem{
		{Category: "SKY", FcstValue: "1", FcstDate: "20231110", FcstTime: "1400"},
	}
	return resp, nil
}

func (f *fakeWeatherService) Summary(ctx context.Context, nx, ny int, baseDate, baseTime string) (*models.WeatherSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.WeatherSummary{Location: "nx:60, ny:127", BaseDate: "20231110", BaseTime: "0600"}, nil
}

type fakeCoordStore struct{}

func (fakeCoordStore) FindByGrid(nx, ny int) (*models.Coordinate, error) {
	if nx == 60 && ny == 127 {
		return &models.Coordinate{ID: 1, Nx: 60, Ny: 127, Province: "서울특별시", City: "중구", Town: "명동"}, nil
	}
	return nil, storage.ErrNotFound
}

func (fakeCoordStore) FindByRegion(province, city, town string) ([]models.Coordinate, error) {
	return []models.Coordinate{{ID: 1, Nx: 60, Ny: 127, Province: "서울특별시"}}, nil
}

func (fakeCoordStore) Close() error { return nil }

func newTestApp(svc WeatherService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	handler := NewHandler(svc, fakeCoordStore{}, zap.NewNop())
	SetupRoutes(app, handler, zap.NewNop())
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func TestCurrentWeatherValidation(t *testing.T) {
	app := newTestApp(&fakeWeatherService{})

	cases := []struct {
		name string
		path string
	}{
		{"missing nx", "/api/v1/weather/current?ny=127"},
		{"nx out of range", "/api/v1/weather/current?nx=150&ny=127"},
		{"ny out of range", "/api/v1/weather/current?nx=60&ny=254"},
		{"bad base_date", "/api/v1/weather/current?nx=60&ny=127&base_date=2023111"},
		{"bad base_time", "/api/v1/weather/current?nx=60&ny=127&base_time=6am"},
		{"num_of_rows too large", "/api/v1/weather/current?nx=60&ny=127&num_of_rows=2000"},
		{"page_no zero", "/api/v1/weather/current?nx=60&ny=127&page_no=0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.path)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCurrentWeatherSuccess(t *testing.T) {
	svc := &fakeWeatherService{}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather/current?nx=60&ny=127")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var envelope models.WeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Items) != 1 || envelope.ResultCode != "00" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
	if svc.nowcastCalls != 1 || svc.combinedCalls != 0 {
		t.Errorf("wrong service operation called: nowcast=%d combined=%d", svc.nowcastCalls, svc.combinedCalls)
	}
}

func TestCurrentWeatherIncludeForecast(t *testing.T) {
	svc := &fakeWeatherService{}
	app := newTestApp(svc)

	resp := doRequest(t, app, "/api/v1/weather/current?nx=60&ny=127&include_forecast=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if svc.combinedCalls != 1 {
		t.Errorf("expected combined query, got nowcast=%d combined=%d", svc.nowcastCalls, svc.combinedCalls)
	}

	var envelope models.WeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.ForecastItems) == 0 {
		t.Error("forecast items missing from combined envelope")
	}
}

func TestForecastBaseTimeSlotValidation(t *testing.T) {
	app := newTestApp(&fakeWeatherService{})

	resp := doRequest(t, app, "/api/v1/weather/forecast?nx=60&ny=127&base_time=0300")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-slot base_time, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "/api/v1/weather/forecast?nx=60&ny=127&base_time=0500")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for valid slot, got %d", resp.StatusCode)
	}
}

func TestUpstreamErrorsMapToBadGateway(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"upstream api error", &services.UpstreamAPIError{Code: "03", Message: "NO_DATA"}},
		{"transport error", &client.TransportError{Kind: client.KindNetwork, Endpoint: "getUltraSrtNcst", Err: errors.New("timeout")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&fakeWeatherService{err: tc.err})

			resp := doRequest(t, app, "/api/v1/weather/current?nx=60&ny=127")
			if resp.StatusCode != http.StatusBadGateway {
				t.Fatalf("expected 502, got %d", resp.StatusCode)
			}
		})
	}
}

func TestUnexpectedErrorMapsToInternal(t *testing.T) {
	app := newTestApp(&fakeWeatherService{err: errors.New("boom")})

	resp := doRequest(t, app, "/api/v1/weather/summary?nx=60&ny=127")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestCoordinateByGrid(t *testing.T) {
	app := newTestApp(&fakeWeatherService{})

	resp := doRequest(t, app, "/api/v1/coordinates/grid?nx=60&ny=127")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var coord models.Coordinate
	if err := json.NewDecoder(resp.Body).Decode(&coord); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if coord.Province != "서울특별시" {
		t.Errorf("unexpected coordinate: %+v", coord)
	}

	resp = doRequest(t, app, "/api/v1/coordinates/grid?nx=2&ny=2")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown grid, got %d", resp.StatusCode)
	}
}

func TestListCoordinates(t *testing.T) {
	app := newTestApp(&fakeWeatherService{})

	resp := doRequest(t, app, "/api/v1/coordinates/?province=%EC%84%9C%EC%9A%B8%ED%8A%B9%EB%B3%84%EC%8B%9C")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var list models.CoordinateList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if list.TotalCount != 1 {
		t.Errorf("unexpected list: %+v", list)
	}
}
