package lodestone

import (
	"context"
	"testing"

	healthuc "github.com/lodestone-ai/lodestone/internal/usecase/health"
)

func TestNewRequiresAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error without database address, got nil")
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := &clientConfig{}
	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithRedisAuth("svc"),
		WithRedisDB(2),
		WithKeyPrefix("test:"),
		WithVectorDimensions(1536),
		WithFusion(0.6, 0.4, 5),
		WithTypeTable(map[string]string{"custom": "custom_schema"}),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.password != "secret" || cfg.username != "svc" || cfg.redisDB != 2 {
		t.Errorf("auth config = %q/%q/%d", cfg.username, cfg.password, cfg.redisDB)
	}
	if cfg.keyPrefix != "test:" {
		t.Errorf("keyPrefix = %q", cfg.keyPrefix)
	}
	if cfg.vectorDimensions != 1536 {
		t.Errorf("vectorDimensions = %d", cfg.vectorDimensions)
	}
	if cfg.vectorWeight != 0.6 || cfg.keywordWeight != 0.4 || cfg.oversampling != 5 {
		t.Errorf("fusion = %v/%v/%d", cfg.vectorWeight, cfg.keywordWeight, cfg.oversampling)
	}
	if cfg.typeTable["custom"] != "custom_schema" {
		t.Errorf("typeTable = %v", cfg.typeTable)
	}
}

func TestHealth(t *testing.T) {
	h := &mockHealthUC{
		checkFn: func(_ context.Context) healthuc.Report {
			return healthuc.Report{
				Status:  healthuc.Degraded,
				Checks:  map[string]healthuc.CheckResult{"database": healthuc.CheckError},
				Schemas: 13,
			}
		},
	}
	c := testClient(nil, nil, nil, nil, h)

	status := c.Health(context.Background())
	if status.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", status.Status)
	}
	if status.Checks["database"] != "error" {
		t.Errorf("Checks = %v", status.Checks)
	}
	if status.Schemas != 13 {
		t.Errorf("Schemas = %d, want 13", status.Schemas)
	}
}
