package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Empty(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server.MaxBodyBytes = %d, want %d", cfg.Server.MaxBodyBytes, DefaultMaxBodyBytes)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %q, want %q", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaulted config invalid: %v", err)
	}
}

func TestApplyDefaults_KeepsSetValues(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Address: ":9999", MaxBodyBytes: 10}}
	ApplyDefaults(cfg)
	if cfg.Server.Address != ":9999" || cfg.Server.MaxBodyBytes != 10 {
		t.Errorf("Server = %+v, want set values kept", cfg.Server)
	}
}

func TestApplyDefaults_NormalizesEndpoints(t *testing.T) {
	secret := &SecretConfig{Value: "s"}
	cfg := &Config{Endpoints: map[string]EndpointConfig{
		"deploy": {Path: " //deploy ", Action: "true", Secret: secret},
	}}
	ApplyDefaults(cfg)

	ep := cfg.Endpoints["deploy"]
	if ep.Path != "deploy" {
		t.Errorf("Path = %q, want %q", ep.Path, "deploy")
	}
	if ep.Secret.Format != DefaultSecretFormat {
		t.Errorf("Secret.Format = %q, want %q", ep.Secret.Format, DefaultSecretFormat)
	}
	if secret.Format != "" {
		t.Error("ApplyDefaults() modified the caller's SecretConfig")
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"5s", 5 * time.Second},
		{"", 30 * time.Second},
		{"garbage", 30 * time.Second},
	}
	for _, tt := range tests {
		got := ServerConfig{ShutdownTimeout: tt.value}.ShutdownTimeoutDuration()
		if got != tt.want {
			t.Errorf("ShutdownTimeoutDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDefaultConfigTemplate_Parses(t *testing.T) {
	cfg, err := Parse([]byte(defaultConfigTemplate), "config.yaml")
	if err != nil {
		t.Fatalf("Parse(defaultConfigTemplate) error = %v", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		t.Errorf("default template invalid: %v", err)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("template address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
}
