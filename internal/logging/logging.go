package logging

import (
	"strings"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-lending/config"
	"github.com/rs/zerolog"
)

const serviceName = "book-lending"

// New builds the service logger from LOG_LEVEL and LOG_JSON
func New(cfg *config.Config) zerolog.Logger {
	logger := httplog.NewLogger(serviceName, httplog.Options{
		LogLevel: cfg.LogLevel,
		JSON:     cfg.LogJSON,
		Concise:  !cfg.LogJSON,
		Tags: map[string]string{
			"store": cfg.StoreDriver,
		},
	})
	// httplog only sets the global level
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
