package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

var ErrFetch = errors.New("forecast fetch failed")

const (
	dateFormat    = "2006-01-02"
	kelvinZero    = 273.15
	unitGroupBase = "base"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// precipTypes accepts the three shapes the provider sends: null, a single
// token, or a list of tokens.
type precipTypes []string

func (p *precipTypes) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*p = precipTypes{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*p = many
	return nil
}

// timelineDay uses pointer fields so absent or null provider values stay
// distinguishable from real zeroes. Only preciptype may legitimately be null.
type timelineDay struct {
	Temp         *float64    `json:"temp"`
	TempMax      *float64    `json:"tempmax"`
	TempMin      *float64    `json:"tempmin"`
	FeelsLike    *float64    `json:"feelslike"`
	FeelsLikeMax *float64    `json:"feelslikemax"`
	FeelsLikeMin *float64    `json:"feelslikemin"`
	Humidity     *float64    `json:"humidity"`
	Precip       *float64    `json:"precip"`
	PrecipProb   *float64    `json:"precipprob"`
	PrecipType   precipTypes `json:"preciptype"`
	WindSpeed    *float64    `json:"windspeed"`
	WindGust     *float64    `json:"windgust"`
	WindDir      *float64    `json:"winddir"`
	CloudCover   *float64    `json:"cloudcover"`
	Visibility   *float64    `json:"visibility"`
	Sunrise      *string     `json:"sunrise"`
	Sunset       *string     `json:"sunset"`
	UVIndex      *float64    `json:"uvindex"`
	Conditions   *string     `json:"conditions"`
	Description  *string     `json:"description"`
}

// missingField returns the name of the first required field absent from the
// day payload, or "" when the payload is complete.
func (d *timelineDay) missingField() string {
	required := []struct {
		name  string
		isSet bool
	}{
		{"temp", d.Temp != nil},
		{"tempmax", d.TempMax != nil},
		{"tempmin", d.TempMin != nil},
		{"feelslike", d.FeelsLike != nil},
		{"feelslikemax", d.FeelsLikeMax != nil},
		{"feelslikemin", d.FeelsLikeMin != nil},
		{"humidity", d.Humidity != nil},
		{"precip", d.Precip != nil},
		{"precipprob", d.PrecipProb != nil},
		{"windspeed", d.WindSpeed != nil},
		{"windgust", d.WindGust != nil},
		{"winddir", d.WindDir != nil},
		{"cloudcover", d.CloudCover != nil},
		{"visibility", d.Visibility != nil},
		{"sunrise", d.Sunrise != nil},
		{"sunset", d.Sunset != nil},
		{"uvindex", d.UVIndex != nil},
		{"conditions", d.Conditions != nil},
		{"description", d.Description != nil},
	}
	for _, f := range required {
		if !f.isSet {
			return f.name
		}
	}
	return ""
}

type timelineResponse struct {
	Days []timelineDay `json:"days"`
}

// VisualCrossingClient fetches daily forecasts from the Visual Crossing
// timeline API. The base unit group keeps temperatures in Kelvin; this client
// converts them to Celsius exactly, display rounding happens in the assembler.
type VisualCrossingClient struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewVisualCrossingClient(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *VisualCrossingClient {
	return &VisualCrossingClient{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

func (c *VisualCrossingClient) Fetch(
	ctx context.Context,
	loc models.Location,
	date time.Time,
) (models.DailyForecast, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("location", loc.String())
	params.Set("key", c.APIKey)
	params.Set("date1", date.Format(dateFormat))
	params.Set("unitGroup", unitGroupBase)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.DailyForecast{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("location", loc.String()).
			Msg("error sending request to Visual Crossing")
		return models.DailyForecast{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().Err(cerr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Str("location", loc.String()).
			Str("status", resp.Status).
			Msg("Visual Crossing returned non-200 status")
		return models.DailyForecast{}, fmt.Errorf("%w: status %s", ErrFetch, resp.Status)
	}

	var raw timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.DailyForecast{}, fmt.Errorf("%w: decode response: %w", ErrFetch, err)
	}
	if len(raw.Days) == 0 {
		return models.DailyForecast{}, fmt.Errorf("%w: response contains no days", ErrFetch)
	}

	day := raw.Days[0]
	if name := day.missingField(); name != "" {
		c.logger.Error().
			Str("location", loc.String()).
			Str("field", name).
			Msg("Visual Crossing day payload is incomplete")
		return models.DailyForecast{}, fmt.Errorf("%w: day payload is missing %q", ErrFetch, name)
	}

	data := models.DailyForecast{
		TempMean:      *day.Temp - kelvinZero,
		TempMax:       *day.TempMax - kelvinZero,
		TempMin:       *day.TempMin - kelvinZero,
		FeelsLikeMean: *day.FeelsLike - kelvinZero,
		FeelsLikeMax:  *day.FeelsLikeMax - kelvinZero,
		FeelsLikeMin:  *day.FeelsLikeMin - kelvinZero,
		Humidity:      *day.Humidity,
		Precip:        *day.Precip,
		PrecipProb:    *day.PrecipProb,
		PrecipTypes:   day.PrecipType,
		WindSpeed:     *day.WindSpeed,
		WindGust:      *day.WindGust,
		WindDir:       *day.WindDir,
		CloudCover:    *day.CloudCover,
		Visibility:    *day.Visibility,
		Sunrise:       *day.Sunrise,
		Sunset:        *day.Sunset,
		UVIndex:       *day.UVIndex,
		Conditions:    *day.Conditions,
		Description:   *day.Description,
	}

	c.logger.Info().
		Str("location", loc.String()).
		Str("date", date.Format(dateFormat)).
		Dur("duration", time.Since(start)).
		Msg("successfully fetched forecast")

	return data, nil
}
