package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/betthink/internal/model"
)

// keyPrefix versions cache entries so a change to the report shape invalidates old ones
const keyPrefix = "betthink:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a key from the normalized query and the backend that answers it.
// Team names and context are case-folded so "Arsenal" and "arsenal " share an entry.
func CacheKey(query model.MatchQuery, provider, modelName string) string {
	q := query.Normalize()
	parts := []string{
		string(q.Sport),
		strings.ToLower(q.HomeTeamName),
		strings.ToLower(q.AwayTeamName),
		strings.ToLower(strings.TrimSpace(q.AdditionalContext)),
		strings.ToLower(provider),
		modelName,
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the cache described by the configuration. It returns nil when caching is disabled.
// With a directory configured, entries survive restarts through a disk layer.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.TTL, 10*time.Minute)
	}
	return NewLayeredCache(cfg.TTL, expandHome(cfg.Dir), cfg.TTL)
}

// GetReport loads a cached report
func GetReport(c Cache, key string) (*model.Report, bool) {
	data, found := c.Get(key)
	if !found {
		return nil, false
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		_ = c.Delete(key)
		return nil, false
	}
	return &report, true
}

// PutReport stores a report under key using the cache's default TTL
func PutReport(c Cache, key string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.Set(key, data, 0)
}

func expandHome(dir string) string {
	if !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[2:])
}
