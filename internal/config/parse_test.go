package config

import (
	"strings"
	"testing"
)

func TestParse_ValidYAML(t *testing.T) {
	data := []byte(`
server:
  address: "0.0.0.0:9000"
  max_body_bytes: 1024
log:
  level: debug
hooks:
  pre_action: echo pre
  err_action: echo err
endpoints:
  deploy:
    path: deploy
    action: ./deploy.sh {{ $.ref }}
    allow_parallel: true
    run_detached: true
    secret:
      value: s3cret
      format: github
    hooks:
      post_action: echo post
`)

	cfg, err := Parse(data, "config.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.Address != "0.0.0.0:9000" {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, "0.0.0.0:9000")
	}
	if cfg.Server.MaxBodyBytes != 1024 {
		t.Errorf("Server.MaxBodyBytes = %d, want 1024", cfg.Server.MaxBodyBytes)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Hooks == nil || cfg.Hooks.PreAction != "echo pre" || cfg.Hooks.ErrAction != "echo err" {
		t.Errorf("Hooks = %+v, want pre and err actions", cfg.Hooks)
	}

	ep, ok := cfg.Endpoints["deploy"]
	if !ok {
		t.Fatal("Endpoints[deploy] missing")
	}
	if ep.Action != "./deploy.sh {{ $.ref }}" {
		t.Errorf("Action = %q", ep.Action)
	}
	if !ep.AllowParallel || !ep.RunDetached {
		t.Errorf("AllowParallel=%v RunDetached=%v, want both true", ep.AllowParallel, ep.RunDetached)
	}
	if ep.Secret == nil || ep.Secret.Value != "s3cret" || ep.Secret.Format != "github" {
		t.Errorf("Secret = %+v", ep.Secret)
	}
	if ep.Hooks == nil || ep.Hooks.PostAction != "echo post" {
		t.Errorf("Hooks = %+v", ep.Hooks)
	}
}

func TestParse_JSONC(t *testing.T) {
	data := []byte(`{
  // listener
  "server": {"address": "127.0.0.1:7000"},
  "endpoints": {
    "build": {
      "path": "build", /* route */
      "action": "make",
    },
  },
}`)

	cfg, err := Parse(data, "hooks.jsonc")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Address != "127.0.0.1:7000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Endpoints["build"].Action != "make" {
		t.Errorf("Endpoints[build].Action = %q, want %q", cfg.Endpoints["build"].Action, "make")
	}
}

func TestParse_Empty(t *testing.T) {
	for _, name := range []string{"empty.yaml", "empty.json"} {
		cfg, err := Parse(nil, name)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", name, err)
		}
		if cfg.Server.Address != "" || len(cfg.Endpoints) != 0 {
			t.Errorf("Parse(%s) = %+v, want zero value", name, cfg)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"), "bad.yaml")
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("error %q should name the file", err)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("unknown_field: true\n"), "config.yaml")
	if err == nil {
		t.Fatal("Parse() expected error for unknown field")
	}
}

func TestParse_NestedUnknownField(t *testing.T) {
	data := []byte(`
endpoints:
  deploy:
    path: deploy
    action: make
    parallel: true
`)
	_, err := Parse(data, "config.yaml")
	if err == nil {
		t.Fatal("Parse() expected error for nested unknown field")
	}
}

func TestParse_TypeMismatch(t *testing.T) {
	_, err := Parse([]byte("server:\n  max_body_bytes: lots\n"), "config.yaml")
	if err == nil {
		t.Fatal("Parse() expected error for type mismatch")
	}
}

func TestMarshal_RoundTripsEndpoints(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Address: "127.0.0.1:8080"},
		Endpoints: map[string]EndpointConfig{
			"deploy": {Path: "deploy", Action: "make deploy"},
		},
		Sources: []string{"ignored.yaml"},
	}

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(data), "ignored.yaml") {
		t.Errorf("Marshal() output contains Sources:\n%s", data)
	}

	got, err := Parse(data, "config.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Endpoints["deploy"].Action != "make deploy" {
		t.Errorf("round trip lost action: %+v", got.Endpoints)
	}
}
