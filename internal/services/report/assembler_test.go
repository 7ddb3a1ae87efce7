package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/report"
)

func sampleForecast() models.DailyForecast {
	return models.DailyForecast{
		TempMean:      10.4,
		TempMax:       15.6,
		TempMin:       4.5,
		FeelsLikeMean: 9.0,
		FeelsLikeMax:  14.0,
		FeelsLikeMin:  3.0,
		Humidity:      71.2,
		Precip:        1.4,
		PrecipProb:    60,
		PrecipTypes:   []string{"rain"},
		WindSpeed:     5.3,
		WindGust:      9.8,
		WindDir:       270,
		CloudCover:    88,
		Visibility:    10,
		Sunrise:       "06:12:34",
		Sunset:        "19:45:01",
		UVIndex:       3,
		Conditions:    "Rain, Partially cloudy",
		Description:   "Rain in the morning.",
	}
}

func TestMetricsBlock_DateFormat(t *testing.T) {
	testCases := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "single digit day and month padded",
			date: time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC),
			want: "07.03.2025",
		},
		{
			name: "end of year",
			date: time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			want: "31.12.2025",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			block := report.MetricsBlock(sampleForecast(), tc.date)
			assert.Contains(t, block, "Прогноз погоды на "+tc.want+":")
		})
	}
}

func TestMetricsBlock_TemperatureRounding(t *testing.T) {
	date := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	block := report.MetricsBlock(sampleForecast(), date)

	assert.Contains(t, block, "Минимальная — 4°C (ощущается 3°C)")
	assert.Contains(t, block, "Средняя — 10°C (ощущается 9°C)")
	assert.Contains(t, block, "Максимальная — 16°C (ощущается 14°C)")
}

func TestMetricsBlock_NonTemperatureFieldsKeepPrecision(t *testing.T) {
	date := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	block := report.MetricsBlock(sampleForecast(), date)

	assert.Contains(t, block, "Скорость — 5.3 м/с")
	assert.Contains(t, block, "Порывы — 9.8 м/с")
	assert.Contains(t, block, "Количество — 1.4 мм")
	assert.Contains(t, block, "Вероятность — 60%")
	assert.Contains(t, block, "Направление — 270°")
}

func TestMetricsBlock_SunTimes(t *testing.T) {
	date := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	block := report.MetricsBlock(sampleForecast(), date)

	assert.Contains(t, block, "Восход — 06:12\n")
	assert.Contains(t, block, "Закат — 19:45\n")
}

func TestMetricsBlock_NoPrecipSentinel(t *testing.T) {
	f := sampleForecast()
	f.PrecipTypes = nil

	date := time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC)
	block := report.MetricsBlock(f, date)

	assert.Contains(t, block, "Тип — Нет\n")
	assert.NotContains(t, block, "None")
}

func TestPrecipTypes(t *testing.T) {
	testCases := []struct {
		name  string
		types []string
		want  string
	}{
		{name: "nil", types: nil, want: "Нет"},
		{name: "empty", types: []string{}, want: "Нет"},
		{name: "single", types: []string{"rain"}, want: "rain"},
		{name: "list", types: []string{"rain", "snow"}, want: "rain, snow"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, report.PrecipTypes(tc.types))
		})
	}
}

func TestClock(t *testing.T) {
	assert.Equal(t, "06:12", report.Clock("06:12:34"))
	assert.Equal(t, "19:45", report.Clock("19:45"))
	assert.Equal(t, "7:45", report.Clock("7:45"))
	assert.Equal(t, "", report.Clock(""))
}

func TestFinalize(t *testing.T) {
	block := "metrics\n"
	commentary := "Отличный день для прогулки ☀️"

	got := report.Finalize(block, commentary)

	assert.True(t, strings.HasPrefix(got, block))
	assert.True(t, strings.HasSuffix(got, commentary))
	assert.Equal(t, block+commentary, got)
}
