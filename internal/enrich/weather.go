package enrich

import (
	"context"
	"net/url"
	"strings"

	"github.com/h0157/supply-chain-risk-dashboard/internal/datasource/httpds"
	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// Weather risk scores by condition class.
const (
	weatherRiskSevere  = 0.8 // storms and rain
	weatherRiskSnow    = 0.7
	weatherRiskBenign  = 0.2
	weatherRiskUnknown = 0.5 // fetch failed, condition unknown
)

// WeatherSource fetches current weather conditions per country from a
// weatherapi.com-shaped endpoint and maps them to a risk score.
type WeatherSource struct {
	Client  *httpds.Client
	BaseURL string // e.g. "http://api.weatherapi.com/v1/current.json"
	APIKey  string
}

// weatherResponse mirrors the subset of the API response the source uses.
type weatherResponse struct {
	Current struct {
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		TempC float64 `json:"temp_c"`
	} `json:"current"`
}

func (s *WeatherSource) Name() string { return "weather" }

func (s *WeatherSource) Fields() []string {
	return []string{"weather_condition", "temperature_c", "weather_risk"}
}

// Fetch retrieves current conditions for the given country. On any fetch or
// parse failure it returns the documented neutral record: condition
// "Unknown", missing temperature, risk 0.5.
func (s *WeatherSource) Fetch(ctx context.Context, key string) Result {
	var resp weatherResponse
	err := s.Client.GetJSON(ctx, s.BaseURL, url.Values{
		"key": {s.APIKey},
		"q":   {key},
	}, &resp)
	if err != nil {
		return Result{
			Record: EnrichmentRecord{Key: key, Fields: records.Record{
				"weather_condition": "Unknown",
				"temperature_c":     nil,
				"weather_risk":      weatherRiskUnknown,
			}},
			Fallback: true,
			Err:      err,
		}
	}

	condition := resp.Current.Condition.Text
	return Result{Record: EnrichmentRecord{Key: key, Fields: records.Record{
		"weather_condition": condition,
		"temperature_c":     resp.Current.TempC,
		"weather_risk":      WeatherRisk(condition),
	}}}
}

// WeatherRisk maps a condition text to a risk score: 0.8 when it mentions
// storms or rain, 0.7 for snow, 0.2 otherwise. Matching is case-insensitive.
func WeatherRisk(condition string) float64 {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "storm") || strings.Contains(c, "rain"):
		return weatherRiskSevere
	case strings.Contains(c, "snow"):
		return weatherRiskSnow
	default:
		return weatherRiskBenign
	}
}
