package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type SQLiteConfig struct {
	CacheSizeKB   int    // negativo = KB, positivo = páginas
	WALMode       bool   // Write-Ahead Logging
	SyncLevel     string // "OFF", "NORMAL", "FULL", "EXTRA"
	BusyTimeoutMS int
}

func GetSQLiteConfig() SQLiteConfig {
	cfg := SQLiteConfig{
		CacheSizeKB:   -16000,
		WALMode:       true,
		SyncLevel:     "NORMAL",
		BusyTimeoutMS: 5000,
	}

	if v, ok := os.LookupEnv("SQLITE_CACHE_SIZE"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.CacheSizeKB = i
		}
	}

	if v, ok := os.LookupEnv("SQLITE_WAL_MODE"); ok {
		cfg.WALMode = strings.ToLower(v) == "true" || v == "1"
	}

	if v, ok := os.LookupEnv("SQLITE_SYNC_LEVEL"); ok {
		v = strings.ToUpper(v)
		if v == "OFF" || v == "NORMAL" || v == "FULL" || v == "EXTRA" {
			cfg.SyncLevel = v
		}
	}

	if v, ok := os.LookupEnv("SQLITE_BUSY_TIMEOUT"); ok {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.BusyTimeoutMS = i
		}
	}

	if _, ok := os.LookupEnv("SQLITE_CACHE_SIZE"); !ok {
		if ramMB := detectRAM(); ramMB > 0 {
			cfg.CacheSizeKB = calculateCacheSize(ramMB)
		}
	}

	return cfg
}

// DSN appends the connection parameters understood by go-sqlite3 to base.
// Parameters already present in base win.
func (c SQLiteConfig) DSN(base string) string {
	path, rawQuery, _ := strings.Cut(base, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}

	journal := "DELETE"
	if c.WALMode {
		journal = "WAL"
	}
	setDefault(q, "_journal_mode", journal)
	setDefault(q, "_synchronous", c.SyncLevel)
	setDefault(q, "_busy_timeout", strconv.Itoa(c.BusyTimeoutMS))
	setDefault(q, "_cache_size", fmt.Sprintf("%d", c.CacheSizeKB))
	setDefault(q, "_foreign_keys", "on")

	return path + "?" + q.Encode()
}

func setDefault(q url.Values, key, value string) {
	if q.Get(key) == "" {
		q.Set(key, value)
	}
}

func calculateCacheSize(ramMB int) int {
	cacheMB := int(math.Floor(float64(ramMB) * 0.02))
	cacheMB = max(cacheMB, 8)
	cacheMB = min(cacheMB, 256)
	return -cacheMB * 1024
}

func detectRAM() int {
	if v, ok := os.LookupEnv("SYSTEM_RAM_MB"); ok {
		if mb, err := strconv.Atoi(v); err == nil && mb > 0 {
			return mb
		}
	}

	data, err := os.ReadFile("/proc/meminfo")
	if err == nil {
		lines := string(data)
		for line := range strings.SplitSeq(lines, "\n") {
			if strings.HasPrefix(line, "MemTotal:") {
				fields := strings.Fields(line)
				if len(fields) >= 2 {
					if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
						return int(kb / 1024)
					}
				}
			}
		}
	}

	return 0
}
