package models

import (
	"errors"
	"strings"
	"unicode"
)

// Location is a normalized "City, Country" string used as the weather
// provider's geocoding key.
type Location string

var ErrMalformedLocation = errors.New("location is not in \"City, Country\" form")

// Validate checks the "City, Country" shape: exactly one comma-space
// separator, both segments non-empty, capitalized, no trailing punctuation.
func (l Location) Validate() error {
	parts := strings.Split(string(l), ", ")
	if len(parts) != 2 {
		return ErrMalformedLocation
	}
	for _, part := range parts {
		runes := []rune(part)
		if len(runes) == 0 {
			return ErrMalformedLocation
		}
		if !unicode.IsUpper(runes[0]) {
			return ErrMalformedLocation
		}
		last := runes[len(runes)-1]
		if unicode.IsPunct(last) || unicode.IsSpace(last) {
			return ErrMalformedLocation
		}
	}
	return nil
}

func (l Location) String() string {
	return string(l)
}

// DailyForecast is the per-day record fetched from the weather provider.
// Temperatures are already converted to Celsius by the client.
type DailyForecast struct {
	TempMean float64
	TempMax  float64
	TempMin  float64

	FeelsLikeMean float64
	FeelsLikeMax  float64
	FeelsLikeMin  float64

	Humidity    float64
	Precip      float64
	PrecipProb  float64
	PrecipTypes []string

	WindSpeed float64
	WindGust  float64
	WindDir   float64

	CloudCover float64
	Visibility float64

	Sunrise string
	Sunset  string
	UVIndex float64

	Conditions  string
	Description string
}
