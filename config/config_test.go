package config

import "testing"

func TestDefaultsArePopulated(t *testing.T) {
	cfg := Defaults()
	if cfg.Prompt == "" {
		t.Error("Defaults().Prompt is empty")
	}
	if cfg.HistoryFile == "" {
		t.Error("Defaults().HistoryFile is empty")
	}
}

func TestLoadFallsBackWhenRcFileAbsent(t *testing.T) {
	// Load reads from the real home directory; in a sandboxed test
	// environment ~/.zoxrc.yaml is expected to be absent, so Load should
	// return Defaults() without error rather than failing.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Prompt == "" {
		t.Error("Load().Prompt is empty")
	}
}
