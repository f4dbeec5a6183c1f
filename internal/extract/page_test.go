package extract

import (
	"strings"
	"testing"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"title tag", `<html><head><title>  Arsenal 2-1 Chelsea
			- BBC Sport </title></head><body><h1>Match report</h1></body></html>`, "Arsenal 2-1 Chelsea - BBC Sport"},
		{"og fallback", `<html><head><meta property="og:title" content="Preview: Lakers v Celtics"></head></html>`, "Preview: Lakers v Celtics"},
		{"heading fallback", `<html><body><script>var t = "<title>x</title>";</script><h1>Team <b>news</b></h1></body></html>`, "Team news"},
		{"none", `<html><body><p>nothing here</p></body></html>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageTitle(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageTitle_Truncates(t *testing.T) {
	long := strings.Repeat("x", maxTitleLen+50)
	got, err := PageTitle(strings.NewReader("<title>" + long + "</title>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxTitleLen+3 {
		t.Errorf("expected truncated title, got length %d", len(got))
	}
}
