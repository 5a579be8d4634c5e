package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Errorf("unexpected default addr %q", cfg.Server.Addr)
	}
	if cfg.Pagination.DefaultLimit != 10 || cfg.Pagination.MaxLimit != 100 {
		t.Errorf("unexpected pagination defaults %+v", cfg.Pagination)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.AppLabel != "user-roster" {
		t.Errorf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Auth.JWTSecret != "" || cfg.Auth.TokenTTLMinutes != 60 {
		t.Errorf("unexpected auth defaults %+v", cfg.Auth)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ROSTER_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("ROSTER_METRICS_APPLABEL", "roster-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("env override ignored, got %q", cfg.Server.Addr)
	}
	if cfg.Metrics.AppLabel != "roster-test" {
		t.Errorf("env override ignored, got %q", cfg.Metrics.AppLabel)
	}
}
