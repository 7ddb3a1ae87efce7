package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

type fetcher interface {
	Fetch(ctx context.Context, loc models.Location, date time.Time) (models.DailyForecast, error)
}

type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped fetcher
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped fetcher) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Fetch(
	ctx context.Context,
	loc models.Location,
	date time.Time,
) (models.DailyForecast, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, loc, date)
	})
	if err != nil {
		return models.DailyForecast{},
			fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.DailyForecast)
	if !ok {
		return models.DailyForecast{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}
