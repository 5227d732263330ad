package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Endpoint names on the KMA short-term forecast service.
const (
	EndpointUltraSrtNcst = "getUltraSrtNcst"
	EndpointUltraSrtFcst = "getUltraSrtFcst"
	EndpointVilageFcst   = "getVilageFcst"
)

// APIResponse mirrors the KMA wire format. Observation items carry obsrValue,
// forecast items fcstValue/fcstDate/fcstTime; the unused fields decode empty.
type APIResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			DataType   string `json:"dataType"`
			NumOfRows  int    `json:"numOfRows"`
			PageNo     int    `json:"pageNo"`
			TotalCount int    `json:"totalCount"`
			Items      struct {
				Item []APIItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type APIItem struct {
	Category  string `json:"category"`
	ObsrValue string `json:"obsrValue"`
	FcstValue string `json:"fcstValue"`
	BaseDate  string `json:"baseDate"`
	BaseTime  string `json:"baseTime"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	Nx        int    `json:"nx"`
	Ny        int    `json:"ny"`
}

// QueryParams are the request parameters shared by all three KMA endpoints.
type QueryParams struct {
	BaseDate  string
	BaseTime  string
	Nx        int
	Ny        int
	NumOfRows int
	PageNo    int
}

// KMAClient talks to the KMA public short-term forecast API.
type KMAClient struct {
	*BaseClient
	serviceKey string
	baseURL    string
	logger     *zap.Logger
}

func NewKMAClient(serviceKey, baseURL string, config ClientConfig, logger *zap.Logger) *KMAClient {
	baseClient := NewBaseClient("kma", config, logger)
	return &KMAClient{
		BaseClient: baseClient,
		serviceKey: serviceKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Fetch issues a GET against the named endpoint and decodes the JSON payload.
// A body that is not valid JSON comes back as a decode-kind TransportError;
// the result code inside the payload is the caller's concern.
func (c *KMAClient) Fetch(ctx context.Context, endpoint string, p QueryParams) (*APIResponse, error) {
	values := url.Values{}
	values.Set("serviceKey", c.serviceKey)
	values.Set("dataType", "JSON")
	values.Set("pageNo", strconv.Itoa(p.PageNo))
	values.Set("numOfRows", strconv.Itoa(p.NumOfRows))
	values.Set("base_date", p.BaseDate)
	values.Set("base_time", p.BaseTime)
	values.Set("nx", strconv.Itoa(p.Nx))
	values.Set("ny", strconv.Itoa(p.Ny))

	c.logger.Info("Fetching weather data",
		zap.String("endpoint", endpoint),
		zap.Int("nx", p.Nx),
		zap.Int("ny", p.Ny),
		zap.String("base_date", p.BaseDate),
		zap.String("base_time", p.BaseTime))
	c.logger.Debug("Request parameters",
		zap.String("endpoint", endpoint),
		zap.String("params", values.Encode()))

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())

	body, err := c.Get(ctx, endpoint, u)
	if err != nil {
		return nil, err
	}

	var payload APIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &TransportError{Kind: KindDecode, Endpoint: endpoint, Err: err}
	}

	return &payload, nil
}
