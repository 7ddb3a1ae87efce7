package commentary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

var ErrCommentary = errors.New("commentary generation failed")

const dateFormat = "2006-01-02"

const mainPrompt = `
Ты — умный, человечный и дружелюбный комментатор погоды.
Твоя задача — на основе полученных данных о погоде в городе написать короткий, разговорный комментарий от 2 до 5 предложений.

Учти:
- анализируй всё: температуру, облачность, осадки, ветер, солнечный индекс, влажность, время года, время суток (если указано), местоположение;
- добавь лёгкий оптимизм, эмоции и живой тон — будто рассказываешь другу, но без обращения напрямую;
- если погода сложная — будь реалистичным, но подбодри («дождь не помешает прогулке ☔»);
- если город известен чем-то (например, красивыми осенними парками в Ванкувере или снежными зимами в Москве) — можно добавить локальную деталь;
- вставляй уместные эмодзи (1–3), не детские, не шаблонные, только если они усиливают смысл;
- можно лёгкий юмор («ветер сегодня явно решил стать тренером по кардио 💨»);
- можешь давать советы по погоде, если это логично («лучше взять зонт», «самое время для прогулки»).

Твоя цель — сделать погоду “человечной”: чтобы человек почувствовал атмосферу, настроение дня и лёгкое воодушевление.
Не задавай встречных вопросов, не упоминай, что ты нейросеть или модель.
`

const negativePrompt = `
Не делай следующее:
- не задавай встречных вопросов;
- не используй фразы вроде "по данным модели", "как ИИ", "согласно прогнозу", "по нашим данным";
- не будь роботоподобным, не повторяй одни и те же слова;
- не используй избыточный пафос или чрезмерные восклицания;
- не используй детские, нелепые или неуместные смайлы;
- не начинай ответ с приветствия;
- не уходи в длинные научные объяснения — только эмоция, ощущение и смысл.
`

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces the free-text commentary that accompanies the metrics
// block. The model output is cosmetic, so validation stays loose: non-empty
// and capped in length.
type Generator struct {
	llm      completer
	language string
	maxRunes int
	logger   zerolog.Logger
}

func NewGenerator(llm completer, language string, maxRunes int, logger zerolog.Logger) *Generator {
	return &Generator{llm: llm, language: language, maxRunes: maxRunes, logger: logger}
}

func (g *Generator) Comment(
	ctx context.Context,
	metricsBlock string,
	loc models.Location,
	target, today time.Time,
) (string, error) {
	reply, err := g.llm.Complete(ctx, g.buildPrompt(metricsBlock, loc, target, today))
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("location", loc.String()).
			Msg("commentary completion failed")
		return "", fmt.Errorf("%w: %w", ErrCommentary, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: model returned empty commentary", ErrCommentary)
	}

	if runes := []rune(reply); len(runes) > g.maxRunes {
		g.logger.Warn().
			Str("location", loc.String()).
			Int("length", len(runes)).
			Msg("commentary exceeds length cap, truncating")
		reply = string(runes[:g.maxRunes])
	}

	return reply, nil
}

func (g *Generator) buildPrompt(metricsBlock string, loc models.Location, target, today time.Time) string {
	return fmt.Sprintf(
		"Есть данные о погоде в городе %s. "+
			"На %s дату. Сегодня %s. "+
			"Данные: %s. "+
			"Проанализируй и напиши короткий комментарий в человеческом, живом, эмоциональном стиле — как описано в инструкциях дальше. "+
			"Позитивный промт: %s. "+
			"Негативный промт: %s."+
			"Основной язык ответа - %s",
		loc, target.Format(dateFormat), today.Format(dateFormat),
		metricsBlock, mainPrompt, negativePrompt, g.language,
	)
}
