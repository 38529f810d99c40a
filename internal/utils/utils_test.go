package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded list", map[string]string{"X-Forwarded-For": " 203.0.113.5 , 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "203.0.113.6"}, "10.0.0.2:1234", "203.0.113.6"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.1"}, "10.0.0.2:1234", "198.51.100.1"},
		{"peer", nil, "192.0.2.10:5555", "192.0.2.10"},
		{"peer without port", nil, "192.0.2.11", "192.0.2.11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/track", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestLooksLikeEmail(t *testing.T) {
	if LooksLikeEmail("") || LooksLikeEmail("nope") {
		t.Error("expected rejection")
	}
	if !LooksLikeEmail("a@b") {
		t.Error("expected acceptance")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestOptionalString(t *testing.T) {
	blank := "   "
	if OptionalString(&blank) != nil {
		t.Error("blank should map to nil")
	}
	v := " x "
	if got := OptionalString(&v); got == nil || *got != "x" {
		t.Errorf("OptionalString = %v", got)
	}
	if OptionalString(nil) != nil {
		t.Error("nil should stay nil")
	}
}
