package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: "127.0.0.1:8080", ShutdownTimeout: "30s"},
		Log:    LogConfig{Level: "info"},
		Endpoints: map[string]EndpointConfig{
			"deploy": {Path: "deploy", Action: "make deploy", Secret: &SecretConfig{Value: "s", Format: "hmac"}},
			"build":  {Path: "build", Action: "make"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_Empty(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Errorf("Validate(empty) error = %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "address without port",
			mutate:  func(c *Config) { c.Server.Address = "localhost" },
			wantErr: "server.address",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Address = ":70000" },
			wantErr: "must be 0-65535",
		},
		{
			name:    "bad shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = "soon" },
			wantErr: "server.shutdown_timeout",
		},
		{
			name:    "negative body limit",
			mutate:  func(c *Config) { c.Server.MaxBodyBytes = -1 },
			wantErr: "server.max_body_bytes",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "log.level",
		},
		{
			name: "empty path",
			mutate: func(c *Config) {
				c.Endpoints["build"] = EndpointConfig{Path: "/", Action: "make"}
			},
			wantErr: "endpoints.build.path",
		},
		{
			name: "empty action",
			mutate: func(c *Config) {
				c.Endpoints["build"] = EndpointConfig{Path: "build", Action: "  "}
			},
			wantErr: "endpoints.build.action",
		},
		{
			name: "duplicate path",
			mutate: func(c *Config) {
				c.Endpoints["other"] = EndpointConfig{Path: "/deploy", Action: "true"}
			},
			wantErr: "already used",
		},
		{
			name: "empty secret",
			mutate: func(c *Config) {
				c.Endpoints["deploy"] = EndpointConfig{Path: "deploy", Action: "true", Secret: &SecretConfig{Format: "hmac"}}
			},
			wantErr: "endpoints.deploy.secret.value",
		},
		{
			name: "unknown secret format",
			mutate: func(c *Config) {
				c.Endpoints["deploy"] = EndpointConfig{Path: "deploy", Action: "true", Secret: &SecretConfig{Value: "s", Format: "bitbucket"}}
			},
			wantErr: "endpoints.deploy.secret.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DuplicatePathReportsLaterName(t *testing.T) {
	cfg := &Config{Endpoints: map[string]EndpointConfig{
		"b": {Path: "same", Action: "true"},
		"a": {Path: "same", Action: "true"},
	}}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !strings.Contains(err.Error(), `endpoints.b.path`) || !strings.Contains(err.Error(), `"a"`) {
		t.Errorf("Validate() error = %q", err)
	}
}

func TestValidateListenAddr(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{":8080", false},
		{"127.0.0.1:1", false},
		{"[::1]:65535", false},
		{"host", true},
		{"host:abc", true},
		{"host:0", false},
		{"127.0.0.1:0", false},
		{":-1", true},
	}
	for _, tt := range tests {
		err := validateListenAddr(tt.addr, "server.address")
		if (err != nil) != tt.wantErr {
			t.Errorf("validateListenAddr(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
		}
	}
}
