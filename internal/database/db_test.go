package database

import (
	"strings"
	"testing"

	"github.com/crowdpulse/event-engagement/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBPass: "secret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "engagement",
	}
	dsn := DSN(cfg)
	if !strings.HasPrefix(dsn, "app:secret@tcp(db.internal:3306)/engagement?") {
		t.Errorf("unexpected dsn prefix: %q", dsn)
	}
	for _, opt := range []string{"parseTime=true", "loc=UTC", "charset=utf8mb4"} {
		if !strings.Contains(dsn, opt) {
			t.Errorf("dsn %q missing %q", dsn, opt)
		}
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{DBUser: "app", DBHost: "localhost", DBPort: "3306", DBName: "engagement"}
	dsn := DSN(cfg)
	if !strings.HasPrefix(dsn, "app@tcp(") {
		t.Errorf("empty password must omit the colon, got %q", dsn)
	}
}
