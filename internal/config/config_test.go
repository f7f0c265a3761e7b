package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":3000")
	}
	if cfg.SessionTTL != "24h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.SessionTTL, "24h")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.SeedCode != "11111" {
		t.Errorf("SeedCode = %q, want %q", cfg.SeedCode, "11111")
	}
	if cfg.TelemetryKafkaTopic != "messenger-telemetry" {
		t.Errorf("TelemetryKafkaTopic = %q, want default", cfg.TelemetryKafkaTopic)
	}
	if cfg.OTLPInsecure {
		t.Error("OTLPInsecure should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("SESSION_TTL", "1h")
	os.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.SessionTTL != "1h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.SessionTTL, "1h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	os.Clearenv()
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("Load with BCRYPT_COST=99 should return error")
	}
}

func TestLoad_ProductionRequiresDatabase(t *testing.T) {
	os.Clearenv()
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load with APP_ENV=production and no DATABASE_URL should return error")
	}

	os.Setenv("DATABASE_URL", "postgres://localhost:5432/messenger")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with DATABASE_URL set: %v", err)
	}
}

func TestSessionLifetime(t *testing.T) {
	testCases := []struct {
		name string
		ttl  string
		want time.Duration
	}{
		{"valid", "30m", 30 * time.Minute},
		{"empty", "", 24 * time.Hour},
		{"invalid", "soon", 24 * time.Hour},
		{"negative", "-5m", 24 * time.Hour},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{SessionTTL: tc.ttl}
			if got := cfg.SessionLifetime(); got != tc.want {
				t.Errorf("SessionLifetime() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeedPhoneList(t *testing.T) {
	cfg := &Config{SeedPhones: " +375000, +375001 ,,"}
	got := cfg.SeedPhoneList()
	if len(got) != 2 || got[0] != "+375000" || got[1] != "+375001" {
		t.Errorf("SeedPhoneList() = %v, want [+375000 +375001]", got)
	}
}

func TestTelemetryKafkaBrokersList(t *testing.T) {
	cfg := &Config{TelemetryKafkaBrokers: "localhost:9092, broker2:9092"}
	got := cfg.TelemetryKafkaBrokersList()
	if len(got) != 2 || got[0] != "localhost:9092" || got[1] != "broker2:9092" {
		t.Errorf("TelemetryKafkaBrokersList() = %v", got)
	}

	var nilCfg *Config
	if nilCfg.TelemetryKafkaBrokersList() != nil {
		t.Error("nil config should return nil broker list")
	}
}
