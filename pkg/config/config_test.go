package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
molit:
  base_url: https://apis.data.go.kr
  service_key: abc
kakao:
  base_url: https://dapi.kakao.com
catalog:
  dsn: postgres://localhost/test
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesPolicyDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Aggregation.MonthsBack != 12 {
		t.Errorf("MonthsBack = %d, want 12", cfg.Aggregation.MonthsBack)
	}
	if cfg.Aggregation.PageSize != 1500 || cfg.Aggregation.PageCeiling != 10 {
		t.Errorf("paging = %d/%d, want 1500/10", cfg.Aggregation.PageSize, cfg.Aggregation.PageCeiling)
	}
	if cfg.Aggregation.RadiusM != 1000 || cfg.Aggregation.WalkPaceMPerMin != 80.0 {
		t.Errorf("proximity = %d/%v, want 1000/80", cfg.Aggregation.RadiusM, cfg.Aggregation.WalkPaceMPerMin)
	}
	if cfg.Aggregation.SummaryTTL != 24*time.Hour {
		t.Errorf("SummaryTTL = %v, want 24h", cfg.Aggregation.SummaryTTL)
	}
	if cfg.Aggregation.PoolSize != 6 {
		t.Errorf("PoolSize = %d, want 6", cfg.Aggregation.PoolSize)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.MaxSize != 1000 {
		t.Errorf("cache = %s/%d, want memory/1000", cfg.Cache.Backend, cfg.Cache.MaxSize)
	}
}

func TestLoadRejectsMissingServiceKey(t *testing.T) {
	body := `
environment: test
molit:
  base_url: https://apis.data.go.kr
kakao:
  base_url: https://dapi.kakao.com
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error without molit.service_key")
	}
}

func TestLoadRejectsRedisBackendWithoutAddr(t *testing.T) {
	body := minimalYAML + `
cache:
  backend: redis
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatal("expected validation error for redis backend without addr")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MOLIT_SERVICE_KEY", "from-env")
	t.Setenv("KAKAO_REST_KEY", "kakao-env")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Molit.ServiceKey != "from-env" {
		t.Errorf("ServiceKey = %q", cfg.Molit.ServiceKey)
	}
	if cfg.Kakao.RestKey != "kakao-env" {
		t.Errorf("RestKey = %q", cfg.Kakao.RestKey)
	}
}
