package models

// WeatherItem is a single ultra-short-term nowcast reading, enriched with
// category metadata. ObsrValue stays a string: the upstream API does not
// guarantee numeric formatting (code values, "강수없음" and friends).
type WeatherItem struct {
	Category         string `json:"category"`
	CategoryName     string `json:"categoryName,omitempty"`
	ObsrValue        string `json:"obsrValue"`
	ValueDescription string `json:"valueDescription,omitempty"`
	Unit             string `json:"unit,omitempty"`
	BaseDate         string `json:"baseDate"`
	BaseTime         string `json:"baseTime"`
	Nx               int    `json:"nx"`
	Ny               int    `json:"ny"`
}

// ForecastItem is a forecast reading. FcstDate/FcstTime is the moment the
// value predicts for, distinct from the publication base date/time.
type ForecastItem struct {
	Category         string `json:"category"`
	CategoryName     string `json:"categoryName,omitempty"`
	FcstValue        string `json:"fcstValue"`
	ValueDescription string `json:"valueDescription,omitempty"`
	Unit             string `json:"unit,omitempty"`
	FcstDate         string `json:"fcstDate"`
	FcstTime         string `json:"fcstTime"`
	BaseDate         string `json:"baseDate"`
	BaseTime         string `json:"baseTime"`
	Nx               int    `json:"nx"`
	Ny               int    `json:"ny"`
}

// WeatherResponse is the envelope returned to callers. ForecastItems is only
// populated by the combined (nowcast + forecast) query.
type WeatherResponse struct {
	ResultCode    string         `json:"result_code"`
	ResultMessage string         `json:"result_message"`
	NumOfRows     int            `json:"num_of_rows"`
	PageNo        int            `json:"page_no"`
	TotalCount    int            `json:"total_count"`
	Items         []WeatherItem  `json:"items"`
	ForecastItems []ForecastItem `json:"forecast_items,omitempty"`
}

// CategoryReading is one category's value with a human-readable description,
// used in the summary raw-data map.
type CategoryReading struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// SummaryRawData carries everything the nowcast returned, keyed by category.
type SummaryRawData struct {
	TotalCount int                        `json:"total_count"`
	Categories map[string]CategoryReading `json:"categories"`
}

// WeatherSummary is a single-record rollup of a nowcast response: the six
// primary categories pulled out by code, plus the full category map.
type WeatherSummary struct {
	Location      string          `json:"location"`
	BaseDate      string          `json:"base_date"`
	BaseTime      string          `json:"base_time"`
	Temperature   string          `json:"temperature,omitempty"`
	Humidity      string          `json:"humidity,omitempty"`
	Precipitation string          `json:"precipitation,omitempty"`
	WindDirection string          `json:"wind_direction,omitempty"`
	WindSpeed     string          `json:"wind_speed,omitempty"`
	RawData       *SummaryRawData `json:"raw_data,omitempty"`
}
