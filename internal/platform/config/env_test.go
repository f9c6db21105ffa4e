package config

import "testing"

type testConfig struct {
	ContextsFile string `env:"CLASSBRIDGE_CONTEXTS_FILE" envDefault:"contexts.xml"`
	URLPrefix    string `env:"CLASSBRIDGE_URL_PREFIX"`
}

func TestParseEnvFromDefaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnvFrom(&cfg, map[string]string{}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.ContextsFile != "contexts.xml" {
		t.Fatalf("expected default contexts file, got %q", cfg.ContextsFile)
	}
	if cfg.URLPrefix != "" {
		t.Fatalf("expected empty url prefix, got %q", cfg.URLPrefix)
	}
}

func TestParseEnvFromOverrides(t *testing.T) {
	var cfg testConfig
	environment := map[string]string{
		"CLASSBRIDGE_CONTEXTS_FILE": "custom.xml",
		"CLASSBRIDGE_URL_PREFIX":    "https://example.com/courses/",
	}
	if err := ParseEnvFrom(&cfg, environment); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.ContextsFile != "custom.xml" {
		t.Fatalf("expected custom contexts file, got %q", cfg.ContextsFile)
	}
	if cfg.URLPrefix != "https://example.com/courses/" {
		t.Fatalf("expected url prefix override, got %q", cfg.URLPrefix)
	}
}
