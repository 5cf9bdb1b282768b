package common

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerSelectsHandler(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	SetupLogger(slog.LevelInfo, "json")
	_, isJSON := slog.Default().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	SetupLogger(slog.LevelDebug, "console")
	_, isText := slog.Default().Handler().(*slog.TextHandler)
	assert.True(t, isText)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}
