package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "test_user",
		DBPassword:        "test_password",
		DBName:            "test_db",
		ChannelsFile:      "./channels.yaml",
		PageSize:          25,
		SourcePaceMS:      2000,
		EngagementPaceMS:  1000,
		RequestTimeoutSec: 30,
		Port:              "8080",
		APIAccessKey:      "test-key",
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", cfg.PageSize)
	}
	if cfg.SourcePaceMS != 2000 {
		t.Errorf("Expected source pace 2000ms, got %d", cfg.SourcePaceMS)
	}
	if cfg.EngagementPaceMS != 1000 {
		t.Errorf("Expected engagement pace 1000ms, got %d", cfg.EngagementPaceMS)
	}
	if cfg.RequestTimeoutSec != 30 {
		t.Errorf("Expected request timeout 30s, got %d", cfg.RequestTimeoutSec)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
}

func TestGetPanicsWhenUnloaded(t *testing.T) {
	old := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = old
		if r := recover(); r == nil {
			t.Error("Expected Get to panic before Load")
		}
	}()
	Get()
}

func TestSetOverridesGlobal(t *testing.T) {
	old := globalCfg
	defer Set(old)

	Set(&Cfg{Port: "9090"})
	if Get().Port != "9090" {
		t.Errorf("Expected overridden port 9090, got %s", Get().Port)
	}
}
