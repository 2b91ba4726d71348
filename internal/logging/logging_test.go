package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"energy-forecast-service/internal/config"
)

func TestInit(t *testing.T) {
	defer Init(config.LoggerConfig{Level: "info", Format: "text"})

	Init(config.LoggerConfig{Level: "debug", Format: "json"})
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	Init(config.LoggerConfig{Level: "bogus", Format: "text"})
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}
