package services

import (
	"kma-weather-api/internal/models"
	"kma-weather-api/pkg/client"
)

// resultCodeOK is the KMA success sentinel.
const resultCodeOK = "00"

// checkHeader validates the payload's embedded status. Anything other than
// the success sentinel is an upstream error, never an envelope.
func checkHeader(raw *client.APIResponse) error {
	header := raw.Response.Header
	if header.ResultCode != resultCodeOK {
		return &UpstreamAPIError{Code: header.ResultCode, Message: header.ResultMsg}
	}
	return nil
}

// normalizeObservation turns a raw nowcast payload into the caller-facing
// envelope. A missing item list is an empty envelope, not an error, and a
// malformed individual item never fails the whole response.
func normalizeObservation(raw *client.APIResponse) (*models.WeatherResponse, error) {
	if err := checkHeader(raw); err != nil {
		return nil, err
	}

	body := raw.Response.Body
	items := make([]models.WeatherItem, 0, len(body.Items.Item))
	for _, it := range body.Items.Item {
		meta, _ := lookupCategory(it.Category)
		items = append(items, models.WeatherItem{
			Category:         it.Category,
			CategoryName:     meta.Name,
			ObsrValue:        it.ObsrValue,
			ValueDescription: decodeValue(it.Category, it.ObsrValue),
			Unit:             meta.Unit,
			BaseDate:         it.BaseDate,
			BaseTime:         it.BaseTime,
			Nx:               it.Nx,
			Ny:               it.Ny,
		})
	}

	return &models.WeatherResponse{
		ResultCode:    raw.Response.Header.ResultCode,
		ResultMessage: raw.Response.Header.ResultMsg,
		NumOfRows:     body.NumOfRows,
		PageNo:        body.PageNo,
		TotalCount:    body.TotalCount,
		Items:         items,
	}, nil
}

// normalizeForecast enriches a raw forecast payload (ultra-short-term or
// 3-day) into forecast items.
func normalizeForecast(raw *client.APIResponse) ([]models.ForecastItem, error) {
	if err := checkHeader(raw); err != nil {
		return nil, err
	}

	rawItems := raw.Response.Body.Items.Item
	items := make([]models.ForecastItem, 0, len(rawItems))
	for _, it := range rawItems {
		meta, _ := lookupCategory(it.Category)
		items = append(items, models.ForecastItem{
			Category:         it.Category,
			CategoryName:     meta.Name,
			FcstValue:        it.FcstValue,
			ValueDescription: decodeValue(it.Category, it.FcstValue),
			Unit:             meta.Unit,
			FcstDate:         it.FcstDate,
			FcstTime:         it.FcstTime,
			BaseDate:         it.BaseDate,
			BaseTime:         it.BaseTime,
			Nx:               it.Nx,
			Ny:               it.Ny,
		})
	}

	return items, nil
}
