package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.NodeRetryMax != 5 {
		t.Errorf("NodeRetryMax = %d, want 5", cfg.NodeRetryMax)
	}
	if cfg.ReportInterval != time.Hour {
		t.Errorf("ReportInterval = %v, want 1h", cfg.ReportInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NODE_URL", "http://node:5005")
	t.Setenv("NODE_RETRY_MAX", "2")
	t.Setenv("REPORT_INTERVAL", "30m")
	t.Setenv("GATEWAYS", " rOne, rTwo ,,")

	cfg := Load()

	if cfg.NodeURL != "http://node:5005" {
		t.Errorf("NodeURL = %q", cfg.NodeURL)
	}
	if cfg.NodeRetryMax != 2 {
		t.Errorf("NodeRetryMax = %d, want 2", cfg.NodeRetryMax)
	}
	if cfg.ReportInterval != 30*time.Minute {
		t.Errorf("ReportInterval = %v, want 30m", cfg.ReportInterval)
	}
	if len(cfg.Gateways) != 2 || cfg.Gateways[0] != "rOne" || cfg.Gateways[1] != "rTwo" {
		t.Errorf("Gateways = %v, want [rOne rTwo]", cfg.Gateways)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("NODE_RETRY_MAX", "many")
	t.Setenv("REPORT_INTERVAL", "soonish")

	cfg := Load()

	if cfg.NodeRetryMax != 5 {
		t.Errorf("NodeRetryMax = %d, want default 5", cfg.NodeRetryMax)
	}
	if cfg.ReportInterval != time.Hour {
		t.Errorf("ReportInterval = %v, want default 1h", cfg.ReportInterval)
	}
}
