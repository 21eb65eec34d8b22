package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected default worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.SentimentPositiveThreshold != 0.1 {
		t.Errorf("expected positive threshold 0.1, got %f", cfg.SentimentPositiveThreshold)
	}
	if cfg.SentimentNegativeThreshold != -0.1 {
		t.Errorf("expected negative threshold -0.1, got %f", cfg.SentimentNegativeThreshold)
	}
	if cfg.FollowupInterval != 24*time.Hour {
		t.Errorf("expected follow-up interval 24h, got %s", cfg.FollowupInterval)
	}
	if cfg.GenerationModelID == "" {
		t.Error("expected a default generation model id")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("SENTIMENT_TREND_WINDOW", "10")
	t.Setenv("GENERATION_TIMEOUT", "5s")
	t.Setenv("GENERATION_TEMPERATURE", "0.2")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	if cfg.WorkerCount != 8 {
		t.Errorf("expected worker count 8, got %d", cfg.WorkerCount)
	}
	if cfg.SentimentTrendWindow != 10 {
		t.Errorf("expected trend window 10, got %d", cfg.SentimentTrendWindow)
	}
	if cfg.GenerationTimeout != 5*time.Second {
		t.Errorf("expected generation timeout 5s, got %s", cfg.GenerationTimeout)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %f", cfg.Temperature)
	}
	if !cfg.RedisTLS {
		t.Error("expected redis TLS enabled")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("GENERATION_TIMEOUT", "soon")

	cfg := Load()

	if cfg.WorkerCount != 2 {
		t.Errorf("malformed int should fall back to default, got %d", cfg.WorkerCount)
	}
	if cfg.GenerationTimeout != 30*time.Second {
		t.Errorf("malformed duration should fall back to default, got %s", cfg.GenerationTimeout)
	}
}
