package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:8080", "http://secure-proxy:8443", "localhost,.internal")

	tests := []struct {
		rawURL string
		want   string
	}{
		{"http://example.com/a", "http://proxy:8080"},
		{"https://example.com/a", "http://secure-proxy:8443"},
		{"http://localhost:3000/", ""},
		{"https://api.internal/x", ""},
		{"https://internal/x", ""},
	}

	for _, tt := range tests {
		u, _ := url.Parse(tt.rawURL)
		got, err := proxy(&http.Request{URL: u})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.rawURL, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("%s: proxy = %q, want %q", tt.rawURL, gotStr, tt.want)
		}
	}
}

func TestAgentToken(t *testing.T) {
	tests := map[string]string{
		"BetThink/0.1 (+https://github.com/ppiankov/betthink)": "BetThink",
		"Googlebot":             "Googlebot",
		"  curl/8.0  ":          "curl",
		"Mozilla (compatible)":  "Mozilla",
	}
	for in, want := range tests {
		if got := AgentToken(in); got != want {
			t.Errorf("AgentToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		fetches.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: BetThink\nDisallow: /private\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker(nil, "BetThink/0.1 (+https://example.com)", 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/sport/match")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("expected /sport/match to be allowed for our agent")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/page")
	if allowed {
		t.Error("expected /private to be disallowed")
	}

	if fetches.Load() != 1 {
		t.Errorf("expected robots.txt to be fetched once, got %d", fetches.Load())
	}

	checker.Clear()
	_, _, _ = checker.CanFetch(ctx, server.URL+"/")
	if fetches.Load() != 2 {
		t.Errorf("expected refetch after Clear, got %d", fetches.Load())
	}
}

func TestRobotsChecker_MissingFileAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(nil, "BetThink/0.1", 5*time.Second)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("expected allowed with no error, got %v, %v", allowed, err)
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker(nil, "BetThink/0.1", 100*time.Millisecond)
	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/page")
	if err != nil || !allowed {
		t.Errorf("expected fail-open, got %v, %v", allowed, err)
	}
}

func TestRobotsChecker_InvalidURL(t *testing.T) {
	checker := NewRobotsChecker(nil, "BetThink/0.1", time.Second)
	if _, _, err := checker.CanFetch(context.Background(), "no-host"); err == nil {
		t.Error("expected error for URL without host")
	}
}
