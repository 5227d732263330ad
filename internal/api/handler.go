package api

import (
	"context"
	"errors"
	"time"

	"kma-weather-api/internal/models"
	"kma-weather-api/internal/services"
	"kma-weather-api/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// WeatherService is the slice of the query service the handlers need.
type WeatherService interface {
	UltraShortNowcast(ctx context.Context, q services.WeatherQuery) (*models.WeatherResponse, error)
	VilageForecast(ctx context.Context, q services.WeatherQuery) ([]models.ForecastItem, error)
	CombinedWeather(ctx context.Context, q services.WeatherQuery) (*models.WeatherResponse, error)
	Summary(ctx context.Context, nx, ny int, baseDate, baseTime string) (*models.WeatherSummary, error)
}

type Handler struct {
	service WeatherService
	coords  storage.CoordinateStore
	logger  *zap.Logger
}

func NewHandler(service WeatherService, coords storage.CoordinateStore, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		coords:  coords,
		logger:  logger,
	}
}

// weatherQuery holds the validated query parameters of the weather endpoints.
type weatherQuery struct {
	Nx        int    `validate:"required,min=1,max=149"`
	Ny        int    `validate:"required,min=1,max=253"`
	BaseDate  string `validate:"omitempty,len=8,number"`
	BaseTime  string `validate:"omitempty,len=4,number"`
	NumOfRows int    `validate:"min=1,max=1000"`
	PageNo    int    `validate:"min=1"`
}

func bindWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	q := weatherQuery{
		Nx:        c.QueryInt("nx"),
		Ny:        c.QueryInt("ny"),
		BaseDate:  c.Query("base_date"),
		BaseTime:  c.Query("base_time"),
		NumOfRows: c.QueryInt("num_of_rows", 1000),
		PageNo:    c.QueryInt("page_no", 1),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func (q weatherQuery) toServiceQuery() services.WeatherQuery {
	return services.WeatherQuery{
		Nx:        q.Nx,
		Ny:        q.Ny,
		BaseDate:  q.BaseDate,
		BaseTime:  q.BaseTime,
		NumOfRows: q.NumOfRows,
		PageNo:    q.PageNo,
	}
}

// vilageSlots are the eight daily publication times of the 3-day forecast.
var vilageSlots = map[string]bool{
	"0200": true, "0500": true, "0800": true, "1100": true,
	"1400": true, "1700": true, "2000": true, "2300": true,
}

// GetCurrentWeather handles GET /api/v1/weather/current.
// include_forecast=true runs the combined nowcast+forecast query.
func (h *Handler) GetCurrentWeather(c *fiber.Ctx) error {
	q, err := bindWeatherQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	includeForecast := c.QueryBool("include_forecast", false)

	h.logger.Info("Fetching current weather",
		zap.Int("nx", q.Nx),
		zap.Int("ny", q.Ny),
		zap.Bool("include_forecast", includeForecast))

	var result *models.WeatherResponse
	if includeForecast {
		result, err = h.service.CombinedWeather(c.Context(), q.toServiceQuery())
	} else {
		result, err = h.service.UltraShortNowcast(c.Context(), q.toServiceQuery())
	}
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// GetForecast handles GET /api/v1/weather/forecast (3-day forecast).
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	q, err := bindWeatherQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if q.BaseTime != "" && !vilageSlots[q.BaseTime] {
		return fiber.NewError(fiber.StatusBadRequest,
			"base_time must be one of 0200, 0500, 0800, 1100, 1400, 1700, 2000, 2300")
	}

	h.logger.Info("Fetching 3-day forecast",
		zap.Int("nx", q.Nx),
		zap.Int("ny", q.Ny))

	items, err := h.service.VilageForecast(c.Context(), q.toServiceQuery())
	if err != nil {
		return err
	}

	return c.JSON(items)
}

// GetSummary handles GET /api/v1/weather/summary.
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	q, err := bindWeatherQuery(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.logger.Info("Fetching weather summary",
		zap.Int("nx", q.Nx),
		zap.Int("ny", q.Ny))

	summary, err := h.service.Summary(c.Context(), q.Nx, q.Ny, q.BaseDate, q.BaseTime)
	if err != nil {
		return err
	}

	return c.JSON(summary)
}

// ListCoordinates handles GET /api/v1/coordinates with optional
// province/city/town filters.
func (h *Handler) ListCoordinates(c *fiber.Ctx) error {
	coords, err := h.coords.FindByRegion(
		c.Query("province"),
		c.Query("city"),
		c.Query("town"),
	)
	if err != nil {
		return err
	}

	return c.JSON(models.CoordinateList{
		TotalCount:  len(coords),
		Coordinates: coords,
	})
}

// GetCoordinateByGrid handles GET /api/v1/coordinates/grid.
func (h *Handler) GetCoordinateByGrid(c *fiber.Ctx) error {
	q := struct {
		Nx int `validate:"required,min=1,max=149"`
		Ny int `validate:"required,min=1,max=253"`
	}{
		Nx: c.QueryInt("nx"),
		Ny: c.QueryInt("ny"),
	}

	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	coord, err := h.coords.FindByGrid(q.Nx, q.Ny)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no coordinate for requested grid point")
		}
		return err
	}

	return c.JSON(coord)
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	})
}

var startTime = time.Now()
