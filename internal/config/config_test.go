package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Port != "8081" || cfg.StorageType != "memory" || cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.SnapshotInterval != time.Minute || cfg.ChatbotTimeout != 20*time.Second {
		t.Errorf("duration defaults: ttl %v snapshot %v chatbot %v", cfg.JWTTTL, cfg.SnapshotInterval, cfg.ChatbotTimeout)
	}
	if cfg.ChatbotMaxRetries != 2 || cfg.AuthLatency != 0 {
		t.Errorf("retries %d latency %v", cfg.ChatbotMaxRetries, cfg.AuthLatency)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "overrides",
			env:  map[string]string{"PORT": "9000", "AUTH_LATENCY": "1.5s", "CHATBOT_MAX_RETRIES": "0", "DATABASE_URL": "postgres://x"},
			check: func(t *testing.T, c *Config) {
				if c.Port != "9000" || c.AuthLatency != 1500*time.Millisecond || c.ChatbotMaxRetries != 0 || c.DatabaseURL != "postgres://x" {
					t.Errorf("got %+v", c)
				}
			},
		},
		{name: "bad duration", env: map[string]string{"JWT_TTL": "a day"}, wantErr: true},
		{name: "bad retries", env: map[string]string{"CHATBOT_MAX_RETRIES": "two"}, wantErr: true},
		{name: "negative retries", env: map[string]string{"CHATBOT_MAX_RETRIES": "-1"}, wantErr: true},
		{name: "zero snapshot interval", env: map[string]string{"SNAPSHOT_INTERVAL": "0s"}, wantErr: true},
		{name: "negative token ttl", env: map[string]string{"JWT_TTL": "-1h"}, wantErr: true},
		{name: "zero chatbot timeout", env: map[string]string{"CHATBOT_TIMEOUT": "0"}, wantErr: true},
		{name: "negative auth latency", env: map[string]string{"AUTH_LATENCY": "-1s"}, wantErr: true},
		{
			name: "zero auth latency",
			env:  map[string]string{"AUTH_LATENCY": "0s"},
			check: func(t *testing.T, c *Config) {
				if c.AuthLatency != 0 {
					t.Errorf("AuthLatency = %v, want 0", c.AuthLatency)
				}
			},
		},
		{name: "production needs a secret", env: map[string]string{"ENV": "production"}, wantErr: true},
		{name: "production with secret", env: map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
