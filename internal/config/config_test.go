package config

import (
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default :8080, got %s", cfg.Addr)
	}
}

func TestLoadServerConfigExplicitAddr(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected explicit addr kept, got %s", cfg.Addr)
	}
}

func TestLoadServerConfigInvalidPort(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadSpeechConfigDefaults(t *testing.T) {
	t.Setenv("SPEECH_PRIMARY_TIMEOUT", "")
	t.Setenv("SPEECH_SECONDARY_TIMEOUT", "")
	t.Setenv("SPEECH_DEFAULT_LOCALE", "")

	cfg, err := loadSpeechConfig()
	if err != nil {
		t.Fatalf("loadSpeechConfig err: %v", err)
	}
	if cfg.PrimaryTimeout != 5*time.Second {
		t.Fatalf("unexpected primary timeout: %s", cfg.PrimaryTimeout)
	}
	if cfg.SecondaryTimeout != 10*time.Second {
		t.Fatalf("unexpected secondary timeout: %s", cfg.SecondaryTimeout)
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("unexpected default locale: %s", cfg.DefaultLocale)
	}
}

func TestLoadSpeechConfigOverridesAndValidation(t *testing.T) {
	t.Setenv("SPEECH_PRIMARY_TIMEOUT", "2")
	cfg, err := loadSpeechConfig()
	if err != nil {
		t.Fatalf("loadSpeechConfig err: %v", err)
	}
	if cfg.PrimaryTimeout != 2*time.Second {
		t.Fatalf("override not applied: %s", cfg.PrimaryTimeout)
	}

	t.Setenv("SPEECH_PRIMARY_TIMEOUT", "0")
	if _, err := loadSpeechConfig(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}

func TestLoadCORSConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := loadCORSConfig()
	if len(cfg.AllowedOrigins) == 0 {
		t.Fatal("expected default origins")
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	cfg = loadCORSConfig()
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origin not trimmed: %q", cfg.AllowedOrigins[1])
	}
}

func TestAIConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{"api key", AIConfig{Model: "m", APIKey: "k"}, true},
		{"ak/sk", AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}, true},
		{"missing model", AIConfig{APIKey: "k"}, false},
		{"missing credentials", AIConfig{Model: "m"}, false},
		{"partial ak/sk", AIConfig{Model: "m", AccessKey: "a"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Enabled(); got != tc.want {
				t.Fatalf("Enabled() = %v, want %v", got, tc.want)
			}
		})
	}
}
