package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

const (
	dateFormat = "02.01.2006"

	// Sentinel shown when the provider reports no precipitation type.
	noPrecip = "Нет"
)

// MetricsBlock renders the deterministic part of the report: every metric
// group under its own emoji-marked heading. Temperatures are rounded to whole
// degrees here and only here.
func MetricsBlock(f models.DailyForecast, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🌍 Прогноз погоды на %s:\n\n", date.Format(dateFormat))

	fmt.Fprintf(&b, "🌡️ Температура:\n")
	fmt.Fprintf(&b, "  • Минимальная — %.0f°C (ощущается %.0f°C)\n", f.TempMin, f.FeelsLikeMin)
	fmt.Fprintf(&b, "  • Средняя — %.0f°C (ощущается %.0f°C)\n", f.TempMean, f.FeelsLikeMean)
	fmt.Fprintf(&b, "  • Максимальная — %.0f°C (ощущается %.0f°C)\n\n", f.TempMax, f.FeelsLikeMax)

	fmt.Fprintf(&b, "☔ Осадки:\n")
	fmt.Fprintf(&b, "  • Тип — %s\n", PrecipTypes(f.PrecipTypes))
	fmt.Fprintf(&b, "  • Вероятность — %s%%\n", num(f.PrecipProb))
	fmt.Fprintf(&b, "  • Количество — %s мм\n\n", num(f.Precip))

	fmt.Fprintf(&b, "🌬️ Ветер:\n")
	fmt.Fprintf(&b, "  • Скорость — %s м/с\n", num(f.WindSpeed))
	fmt.Fprintf(&b, "  • Порывы — %s м/с\n", num(f.WindGust))
	fmt.Fprintf(&b, "  • Направление — %s°\n\n", num(f.WindDir))

	fmt.Fprintf(&b, "☁️ Облачность:\n")
	fmt.Fprintf(&b, "  • Облачность — %s%%\n", num(f.CloudCover))
	fmt.Fprintf(&b, "  • Видимость — %s км\n\n", num(f.Visibility))

	fmt.Fprintf(&b, "🌅 Солнце:\n")
	fmt.Fprintf(&b, "  • Восход — %s\n", Clock(f.Sunrise))
	fmt.Fprintf(&b, "  • Закат — %s\n", Clock(f.Sunset))
	fmt.Fprintf(&b, "  • УФ-индекс — %s\n\n", num(f.UVIndex))

	fmt.Fprintf(&b, "🎤 О погоде:\n")
	fmt.Fprintf(&b, "  - %s\n", f.Conditions)
	fmt.Fprintf(&b, "  - %s\n", f.Description)

	return b.String()
}

// Finalize glues the commentary right after the metrics block.
func Finalize(metricsBlock, commentary string) string {
	return metricsBlock + commentary
}

// PrecipTypes joins precipitation tokens for display, with the "none"
// sentinel when the provider reported null.
func PrecipTypes(types []string) string {
	if len(types) == 0 {
		return noPrecip
	}
	return strings.Join(types, ", ")
}

// Clock cuts a provider time string down to HH:MM. Short or odd strings pass
// through unchanged instead of panicking on a slice.
func Clock(raw string) string {
	if len(raw) < 5 {
		return raw
	}
	return raw[:5]
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
