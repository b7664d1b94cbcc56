package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_VectorizerUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding = EmbeddingConfig{
		Vectorizers: map[string]VectorizerConfig{
			"default": {Provider: "nowhere", Model: "some-model"},
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown embedding provider reference")
	}
}

func TestValidate_VectorizerWithProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding = EmbeddingConfig{
		Providers: map[string]ProviderConfig{
			"nebius": {APIKey: "k", BaseURL: "https://api.example.com/v1/"},
		},
		Vectorizers: map[string]VectorizerConfig{
			"default": {Provider: "nebius", Model: "some-model", Dimensions: 1024},
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NegativeFusionWeight(t *testing.T) {
	cfg := validConfig()
	cfg.Fusion.VectorWeight = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative fusion weight")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.HTTP.WriteTimeoutSec != 10 || cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("unexpected HTTP defaults: %+v", cfg.HTTP)
	}
	if cfg.Fusion.VectorWeight != 0.7 || cfg.Fusion.KeywordWeight != 0.3 {
		t.Errorf("unexpected fusion weight defaults: %+v", cfg.Fusion)
	}
	if cfg.Fusion.Oversampling != 3 {
		t.Errorf("expected oversampling default 3, got %d", cfg.Fusion.Oversampling)
	}
	if cfg.Storage.KeyPrefix != "lodestone:" {
		t.Errorf("expected default key prefix, got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Fusion = FusionConfig{VectorWeight: 0.5, KeywordWeight: 0.5, Oversampling: 5}
	cfg.Storage.KeyPrefix = "custom:"
	cfg.ApplyDefaults()

	if cfg.Fusion.VectorWeight != 0.5 || cfg.Fusion.Oversampling != 5 {
		t.Errorf("explicit fusion config overridden: %+v", cfg.Fusion)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("explicit key prefix overridden: %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LODESTONE_TEST_KEY", "secret")

	in := []byte("api_key: ${LODESTONE_TEST_KEY}\nport: ${LODESTONE_TEST_PORT:-8080}")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nport: 8080" {
		t.Errorf("unexpected expansion: %q", out)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local default, got %q", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}
