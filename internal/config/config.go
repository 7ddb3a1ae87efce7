package config

import "github.com/kelseyhightower/envconfig"

type Server struct {
	Addr        string `envconfig:"METRICS_SERVER_ADDR" default:":8082"`
	ReadTimeout int    `envconfig:"METRICS_SERVER_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type LLM struct {
	Token string `envconfig:"LLM_API_TOKEN" required:"true"`
	URL   string `envconfig:"LLM_API_URL" default:"https://router.huggingface.co/v1/chat/completions"`
	Model string `envconfig:"LLM_MODEL" default:"deepseek-ai/DeepSeek-V3-0324"`
}

type Weather struct {
	APIKey string `envconfig:"WEATHER_API_KEY" required:"true"`
	URL    string `envconfig:"WEATHER_API_URL" default:"https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline/"`
}

type Report struct {
	Language         string `envconfig:"REPORT_LANGUAGE" default:"русский"`
	CommentaryMaxLen int    `envconfig:"COMMENTARY_MAX_LEN" default:"1500"`
}

type Bot struct {
	Token            string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	PollTimeout      int    `envconfig:"BOT_POLL_TIMEOUT" default:"30"`
	RequestTimeout   int    `envconfig:"BOT_REQUEST_TIMEOUT" default:"90"`
	MaxReconnects    uint64 `envconfig:"BOT_MAX_RECONNECTS" default:"10"`
	ReconnectBackoff int    `envconfig:"BOT_RECONNECT_BACKOFF" default:"2"`
}

type Config struct {
	LLM     LLM
	Weather Weather
	Bot     Bot
	Server  Server
	Breaker Breaker
	Report  Report

	// Timeout in seconds applied to each pipeline stage call.
	StageTimeout int `envconfig:"PIPELINE_STAGE_TIMEOUT" default:"20"`

	LogsPath string `envconfig:"LOGS_PATH" default:"./log/skycast-bot.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
