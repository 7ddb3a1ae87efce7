package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/location"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/pipeline"
)

const (
	btnToday    = "Погода на сегодня"
	btnTomorrow = "Погода на завтра"

	msgGreeting = "Привет 🌤️\nЯ бот прогноза погоды! Хочешь узнать погоду?"
	msgAskCity  = "Напиши название города, погоду в котором хочешь узнать 🌍"
	msgUseMenu  = "Выбери в меню, на какой день нужен прогноз 🗓"
	msgBadCity  = "Не получилось распознать город 😕 Попробуй написать его ещё раз"
	msgBroken   = "Ошибка 😕 Что-то пошло не так, попробуй ещё раз чуть позже"
)

type reporter interface {
	Report(ctx context.Context, rawCity string, day pipeline.Day) (string, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type recorder interface {
	TelegramReconnected()
}

type Config struct {
	PollTimeout    time.Duration
	RequestTimeout time.Duration
	MaxReconnects  uint64
	ReconnectBase  time.Duration
}

// Bot is the Telegram front end: a menu of day choices, then a free-text
// city message per chat. All pipeline errors reach the user as one of two
// sanitized messages, never as raw error text.
type Bot struct {
	api     *tgbotapi.BotAPI
	send    sender
	reports reporter
	metrics recorder
	cfg     Config
	logger  zerolog.Logger

	mu      sync.Mutex
	pending map[int64]pipeline.Day
}

func New(api *tgbotapi.BotAPI, reports reporter, m recorder, cfg Config, logger zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		send:    api,
		reports: reports,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
		pending: make(map[int64]pipeline.Day),
	}
}

// Run polls Telegram until ctx is cancelled. Transport failures trigger a
// bounded exponential reconnect with jitter instead of a blind retry loop.
func (b *Bot) Run(ctx context.Context) error {
	backoff := retry.WithMaxRetries(
		b.cfg.MaxReconnects,
		retry.WithJitter(500*time.Millisecond, retry.NewExponential(b.cfg.ReconnectBase)),
	)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := b.poll(ctx); err != nil {
			b.metrics.TelegramReconnected()
			b.logger.Error().Err(err).Msg("telegram polling failed, reconnecting")
			return retry.RetryableError(err)
		}
		return nil
	})
}

// poll long-polls getUpdates directly rather than through GetUpdatesChan,
// whose internal loop swallows transport errors; here they return to Run and
// drive the bounded backoff.
func (b *Bot) poll(ctx context.Context) error {
	if _, err := b.api.GetMe(); err != nil {
		return err
	}

	b.logger.Info().Str("bot", b.api.Self.UserName).Msg("telegram polling started")

	offset := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = int(b.cfg.PollTimeout / time.Second)

		updates, err := b.api.GetUpdates(u)
		if err != nil {
			return err
		}

		for i := range updates {
			upd := updates[i]
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if upd.Message == nil {
				continue
			}
			go b.handleMessage(ctx, upd.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand():
		b.handleCommand(msg)
	case msg.Text == btnToday:
		b.setPending(msg.Chat.ID, pipeline.Today)
		b.reply(msg.Chat.ID, msgAskCity)
	case msg.Text == btnTomorrow:
		b.setPending(msg.Chat.ID, pipeline.Tomorrow)
		b.reply(msg.Chat.ID, msgAskCity)
	default:
		day, ok := b.takePending(msg.Chat.ID)
		if !ok {
			b.reply(msg.Chat.ID, msgUseMenu)
			return
		}
		b.sendReport(ctx, msg.Chat.ID, msg.Text, day)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	if msg.Command() != "start" {
		return
	}
	greeting := tgbotapi.NewMessage(msg.Chat.ID, msgGreeting)
	greeting.ReplyMarkup = menuKeyboard()
	if _, err := b.send.Send(greeting); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send greeting")
	}
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, city string, day pipeline.Day) {
	reqCtx, cancel := context.WithTimeout(ctx, b.cfg.RequestTimeout)
	defer cancel()

	text, err := b.reports.Report(reqCtx, city, day)
	if err != nil {
		b.logger.Error().
			Err(err).
			Int64("chat_id", chatID).
			Str("city", city).
			Msg("pipeline failed")

		if errors.Is(err, models.ErrMalformedLocation) || errors.Is(err, location.ErrNormalization) {
			b.reply(chatID, msgBadCity)
			return
		}
		b.reply(chatID, msgBroken)
		return
	}

	b.reply(chatID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

func (b *Bot) setPending(chatID int64, day pipeline.Day) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[chatID] = day
}

func (b *Bot) takePending(chatID int64) (pipeline.Day, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	day, ok := b.pending[chatID]
	if ok {
		delete(b.pending, chatID)
	}
	return day, ok
}

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnTomorrow),
		),
	)
}
