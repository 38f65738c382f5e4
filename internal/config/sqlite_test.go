package config

import (
	"net/url"
	"os"
	"strings"
	"testing"
)

func TestCalculateCacheSize(t *testing.T) {
	tests := []struct {
		name  string
		ramMB int
		want  int
	}{
		{"pouca memória usa o mínimo", 100, -8 * 1024},
		{"2% da memória", 4096, -81 * 1024},
		{"muita memória usa o máximo", 64 * 1024, -256 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateCacheSize(tt.ramMB); got != tt.want {
				t.Errorf("calculateCacheSize(%d) = %d, want %d", tt.ramMB, got, tt.want)
			}
		})
	}
}

func TestGetSQLiteConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("SQLITE_CACHE_SIZE", "-2000")
	os.Setenv("SQLITE_SYNC_LEVEL", "full")
	os.Setenv("SQLITE_WAL_MODE", "false")

	cfg := GetSQLiteConfig()
	if cfg.CacheSizeKB != -2000 {
		t.Errorf("expected cache -2000, got %d", cfg.CacheSizeKB)
	}
	if cfg.SyncLevel != "FULL" {
		t.Errorf("expected FULL, got %s", cfg.SyncLevel)
	}
	if cfg.WALMode {
		t.Error("expected WAL disabled")
	}
}

func TestSQLiteConfig_DSN(t *testing.T) {
	cfg := SQLiteConfig{CacheSizeKB: -4096, WALMode: true, SyncLevel: "NORMAL", BusyTimeoutMS: 5000}

	t.Run("AppendsParameters", func(t *testing.T) {
		dsn := cfg.DSN("./blog.db")
		path, raw, ok := strings.Cut(dsn, "?")
		if !ok || path != "./blog.db" {
			t.Fatalf("unexpected dsn %s", dsn)
		}
		q, err := url.ParseQuery(raw)
		if err != nil {
			t.Fatal(err)
		}
		want := map[string]string{
			"_journal_mode": "WAL",
			"_synchronous":  "NORMAL",
			"_busy_timeout": "5000",
			"_cache_size":   "-4096",
			"_foreign_keys": "on",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("%s = %q, want %q", k, q.Get(k), v)
			}
		}
	})

	t.Run("KeepsExistingParameters", func(t *testing.T) {
		dsn := cfg.DSN("file:blog.db?_journal_mode=MEMORY")
		_, raw, _ := strings.Cut(dsn, "?")
		q, _ := url.ParseQuery(raw)
		if q.Get("_journal_mode") != "MEMORY" {
			t.Errorf("expected existing journal mode to win, got %s", q.Get("_journal_mode"))
		}
	})
}
