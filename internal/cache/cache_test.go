package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/betthink/internal/model"
)

func TestCacheKey_Normalizes(t *testing.T) {
	a := CacheKey(model.MatchQuery{HomeTeamName: "Arsenal", AwayTeamName: "Chelsea"}, "gemini", "m1")
	b := CacheKey(model.MatchQuery{Sport: model.SportFootball, HomeTeamName: " arsenal ", AwayTeamName: "CHELSEA"}, "Gemini", "m1")

	if a != b {
		t.Error("equivalent queries should share a cache key")
	}
	if !strings.HasPrefix(a, keyPrefix) {
		t.Errorf("key %q missing prefix", a)
	}
}

func TestCacheKey_Distinguishes(t *testing.T) {
	base := model.MatchQuery{HomeTeamName: "Arsenal", AwayTeamName: "Chelsea"}
	key := CacheKey(base, "gemini", "m1")

	swapped := model.MatchQuery{HomeTeamName: "Chelsea", AwayTeamName: "Arsenal"}
	withContext := base
	withContext.AdditionalContext = "Saka out"

	for name, other := range map[string]string{
		"swapped teams": CacheKey(swapped, "gemini", "m1"),
		"context":       CacheKey(withContext, "gemini", "m1"),
		"provider":      CacheKey(base, "openai", "m1"),
		"model":         CacheKey(base, "gemini", "m2"),
	} {
		if other == key {
			t.Errorf("%s: expected a different key", name)
		}
	}
}

func TestNew_Disabled(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Errorf("expected nil cache when disabled, got %T", c)
	}
	if _, ok := New(model.CacheConfig{Enabled: true, TTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("expected memory cache without a directory")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, TTL: time.Minute, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("expected layered cache with a directory")
	}
}

func TestReportRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	report := model.NewReport(
		model.MatchQuery{Sport: model.SportHockey, HomeTeamName: "Oilers", AwayTeamName: "Flames"},
		model.AnalysisResult{Predictions: []model.PredictionRecord{{Category: "Winner", Prediction: "Oilers", Confidence: 61}}},
	)

	if err := PutReport(c, "k", report); err != nil {
		t.Fatalf("PutReport: %v", err)
	}
	got, found := GetReport(c, "k")
	if !found {
		t.Fatal("expected cached report")
	}
	if got.ID != report.ID || got.Result.Predictions[0].Confidence != 61 {
		t.Errorf("unexpected report: %+v", got)
	}
}

func TestGetReport_CorruptEntryEvicted(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", []byte("not json"), 0)

	if _, found := GetReport(c, "k"); found {
		t.Fatal("corrupt entry should miss")
	}
	if _, found := c.Get("k"); found {
		t.Error("corrupt entry should be deleted")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("betthink:v1:abc", []byte(`{"a":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, found := c.Get("betthink:v1:abc")
	if !found || string(got) != `{"a":1}` {
		t.Fatalf("Get = %s, %v", got, found)
	}

	if err := c.Set("bad", []byte("plain"), 0); err == nil {
		t.Error("expected error for non-JSON value")
	}

	if err := c.Set("old", []byte(`1`), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("old"); found {
		t.Error("expired entry should miss")
	}

	other := filepath.Join(dir, "keep.txt")
	_ = os.WriteFile(other, []byte("x"), 0644)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found := c.Get("betthink:v1:abc"); found {
		t.Error("entry should be gone after Clear")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("Clear should leave unrelated files")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("Delete of missing key should succeed, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := NewDiskCache(dir, time.Minute).Set("k", []byte(`"v"`), 0); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	if _, found := c.Get("k"); !found {
		t.Fatal("expected disk hit")
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("disk hit should be promoted to memory")
	}
}
