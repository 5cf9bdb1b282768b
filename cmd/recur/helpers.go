package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/recurhq/recur/internal/config"
	"github.com/recurhq/recur/internal/gmail"
	"github.com/recurhq/recur/internal/llm"
	"github.com/recurhq/recur/internal/storage"
)

// initStore opens the subscription database and brings the schema current.
func initStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// requireUser resolves the mailbox user id from config or flags.
func requireUser() (string, error) {
	user := viper.GetString("user")
	if user == "" {
		return "", fmt.Errorf("no user configured; pass --user or set user in the config file")
	}
	return user, nil
}

// newTokenProvider builds the Gmail credential provider from configuration.
// OAuth client credentials are injected, never embedded.
func newTokenProvider() (*gmail.TokenProvider, error) {
	clientID := viper.GetString("google.client_id")
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	clientSecret := viper.GetString("google.client_secret")
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}

	tokenDir := config.ExpandPath(viper.GetString("google.token_dir"))
	if tokenDir == "" {
		tokenDir = config.DefaultTokenDir()
	}

	return gmail.NewTokenProvider(clientID, clientSecret, tokenDir)
}

// newValidator builds the semantic validator from configuration.
func newValidator() (*llm.Validator, error) {
	cfg := llm.DefaultConfig()

	if provider := viper.GetString("llm.provider"); provider != "" {
		cfg.Provider = provider
	}
	if model := viper.GetString("llm.model"); model != "" {
		cfg.Model = model
	}
	if temp := viper.GetFloat64("llm.temperature"); temp > 0 {
		cfg.Temperature = temp
	}
	if tokens := viper.GetInt("llm.max_tokens"); tokens > 0 {
		cfg.MaxTokens = tokens
	}
	if interval := viper.GetDuration("llm.min_interval"); interval > 0 {
		cfg.MinInterval = interval
	}
	if threshold := viper.GetFloat64("llm.accept_threshold"); threshold > 0 {
		cfg.AcceptThreshold = threshold
	}

	switch cfg.Provider {
	case "openai":
		cfg.APIKey = viper.GetString("llm.openai_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	default:
		cfg.APIKey = viper.GetString("llm.anthropic_api_key")
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for llm provider %s", cfg.Provider)
	}

	return llm.NewValidator(cfg, nil)
}
