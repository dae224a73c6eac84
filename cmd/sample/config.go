package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config is read from the environment, after loading a .env file if one
// exists in the working directory.
type config struct {
	Addr      string  `env:"ADDR" envDefault:":8000"`
	LogLevel  string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string  `env:"LOG_FORMAT" envDefault:"text"`
	BodyLimit int64   `env:"BODY_LIMIT" envDefault:"1048576"`
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"50"`
	RateBurst int     `env:"RATE_BURST" envDefault:"100"`
	Metrics   bool    `env:"METRICS" envDefault:"true"`
}

func loadConfig(files ...string) (config, error) {
	// The .env file is optional.
	_ = godotenv.Load(files...)

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SAMPLE_"}); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c config) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: want text or json", c.LogFormat)
	}
}
