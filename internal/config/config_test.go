package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != "8080" || cfg.TopLimit != 10 {
		t.Fatalf("unexpected defaults: port=%q top=%d", cfg.ServerPort, cfg.TopLimit)
	}
	if cfg.Ledger.Variant != VariantSeverity {
		t.Fatalf("expected severity variant by default, got %q", cfg.Ledger.Variant)
	}
	f := cfg.Features
	if !f.CheckAcceptor || !f.RankDisplay || !f.TopUnlimited || !f.ShowStats {
		t.Fatalf("expected all features on by default, got %+v", f)
	}
}

func TestLoadReadsPrefixedGroups(t *testing.T) {
	t.Setenv("LEDGER_VARIANT", "accumulation")
	t.Setenv("LEDGER_INITIAL_VALUE", "25")
	t.Setenv("FEATURE_CHECK_ACCEPTOR", "false")
	t.Setenv("FEATURE_TOP_UNLIMITED", "false")
	t.Setenv("TOP_LIMIT", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Ledger.Variant != VariantAccumulation || cfg.Ledger.InitialValue != 25 {
		t.Fatalf("unexpected ledger config: %+v", cfg.Ledger)
	}
	if cfg.Features.CheckAcceptor || cfg.Features.TopUnlimited {
		t.Fatalf("feature toggles not applied: %+v", cfg.Features)
	}
	if cfg.TopLimit != 20 {
		t.Fatalf("expected top limit 20, got %d", cfg.TopLimit)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("LEDGER_VARIANT", "chess")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "variant") {
		t.Fatalf("expected variant error, got %v", err)
	}

	t.Setenv("LEDGER_VARIANT", "severity")
	t.Setenv("TOP_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected TOP_LIMIT error")
	}

	t.Setenv("TOP_LIMIT", "many")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
