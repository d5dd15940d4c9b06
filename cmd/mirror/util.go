package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zoobzio/mirror"
	"github.com/zoobzio/mirror/internal/memstore"
	"github.com/zoobzio/mirror/redis"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// loadConfig builds the cache configuration from flags and environment.
func loadConfig() (mirror.Config, error) {
	cfg := mirror.DefaultConfig()

	resources, err := mirror.ParseResources(viper.GetString("resources"))
	if err != nil {
		return cfg, err
	}
	cfg.Resources = resources
	cfg.Atomic = viper.GetBool("atomic")
	cfg.MessageCacheSize = viper.GetInt("message-cache-size")

	return cfg, cfg.Validate()
}

// getCodec returns the configured value codec.
func getCodec() (mirror.Codec, error) {
	switch strings.ToLower(viper.GetString("codec")) {
	case "", "msgpack":
		return mirror.MsgpackCodec{}, nil
	case "json":
		return mirror.JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("invalid codec %s", viper.GetString("codec"))
	}
}

// openDriver connects to Redis, or creates an in-memory store for dry runs.
// The returned function releases the driver.
func openDriver(ctx context.Context) (mirror.Driver, func() error, error) {
	if viper.GetBool("dry-run") {
		store := memstore.New()
		return store, store.Close, nil
	}

	mode, err := redis.ParseMode(viper.GetString("redis-mode"))
	if err != nil {
		return nil, nil, err
	}
	driver, err := redis.Open(ctx, viper.GetString("redis-url"), mode)
	if err != nil {
		return nil, nil, err
	}
	return driver, driver.Close, nil
}

// openCache opens the driver and wraps it in a configured cache.
func openCache(ctx context.Context) (*mirror.Cache, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	codec, err := getCodec()
	if err != nil {
		return nil, nil, err
	}

	driver, closeDriver, err := openDriver(ctx)
	if err != nil {
		return nil, nil, err
	}
	cache, err := mirror.New(driver,
		mirror.WithConfig(cfg),
		mirror.WithStrategy(mirror.NewDefaultStrategy(codec)),
	)
	if err != nil {
		_ = closeDriver()
		return nil, nil, err
	}
	return cache, closeDriver, nil
}
