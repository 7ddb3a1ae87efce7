package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

var ErrNormalization = errors.New("city normalization failed")

const mainPrompt = `
Ты — умный и точный конвертер названий городов в корректный английский формат.
Твоя задача — на основе полученного от пользователя названия города на любом языке, чаще всего на русском, определить город и страну и выдать результат в формате: City, Country

Учти:
- исправляй опечатки в названии города;
- работай с маленькими и малоизвестными городами;
- всегда используй правильное написание английских названий;
- не добавляй ничего лишнего: ни точек, ни скобок, ни подчеркиваний, ни вопросов, ни приветствий;
- всегда выводи через запятую и пробел, с большой буквы для города и страны;
- примеры: "Воронеж" → "Voronezh, Russia", "Поворино" → "Povorino, Russia", "Нью-Йорк" → "New York, USA".
`

const negativePrompt = `
Не делай следующее:
- не добавляй пояснения, подсказки, вопросы, приветствия;
- не используй лишние символы, точки, скобки, подчеркивания;
- не меняй порядок: всегда сначала город, затем страна;
- не используй нижний регистр или некорректный верхний регистр;
- не добавляй дополнительные слова или детали (например, область, регион, координаты);
- не пытайся красиво описывать город, только корректное название и страна.
`

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Normalizer converts raw user-typed city names into "City, Country" via a
// text generation model, then validates the shape of whatever came back.
type Normalizer struct {
	llm    completer
	logger zerolog.Logger
}

func NewNormalizer(llm completer, logger zerolog.Logger) *Normalizer {
	return &Normalizer{llm: llm, logger: logger}
}

func (n *Normalizer) Normalize(ctx context.Context, raw string) (models.Location, error) {
	reply, err := n.llm.Complete(ctx, buildPrompt(raw))
	if err != nil {
		n.logger.Error().
			Err(err).
			Str("city", raw).
			Msg("normalization completion failed")
		return "", fmt.Errorf("%w: %w", ErrNormalization, err)
	}

	loc := models.Location(cleanReply(reply))
	if err := loc.Validate(); err != nil {
		n.logger.Error().
			Str("city", raw).
			Str("reply", reply).
			Msg("model returned malformed location")
		return "", fmt.Errorf("%w: %q", err, reply)
	}

	n.logger.Info().
		Str("city", raw).
		Str("location", loc.String()).
		Msg("city normalized")
	return loc, nil
}

func buildPrompt(raw string) string {
	return fmt.Sprintf(
		"Есть отправленный пользователем город %s. "+
			"Выполни задания, описанные дальше. Позитивный промт: %s. Негативный промт: %s."+
			"Как уже было описано выше, твой ответ должен быть в формате: City, Country",
		raw, mainPrompt, negativePrompt,
	)
}

// cleanReply strips whitespace, wrapping quotes and a trailing period, which
// chat models like to add despite the prompt.
func cleanReply(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.Trim(s, "\"'`«»")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}
