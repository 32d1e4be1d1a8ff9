package fingerprint

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4"},
			want:       "198.51.100.4",
		},
		{
			name:       "x-forwarded-for chain uses first hop",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2, 10.0.0.3"},
			want:       "198.51.100.4",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:51234"
	r.Header.Set("User-Agent", "test-browser/1.0")

	if got := Derive(r, "client-fp"); got != "client-fp" {
		t.Errorf("supplied fingerprint not honored: %q", got)
	}
	if got := Derive(r, "  client-fp  "); got != "client-fp" {
		t.Errorf("supplied fingerprint not trimmed: %q", got)
	}

	derived := Derive(r, "")
	if !strings.HasPrefix(derived, "srv-") {
		t.Fatalf("derived fingerprint %q lacks srv- prefix", derived)
	}
	// Stable for the same client, different for another.
	if again := Derive(r, ""); again != derived {
		t.Error("derivation is not stable")
	}
	other := httptest.NewRequest("GET", "/", nil)
	other.RemoteAddr = "198.51.100.4:1234"
	other.Header.Set("User-Agent", "test-browser/1.0")
	if Derive(other, "") == derived {
		t.Error("different clients derived the same fingerprint")
	}
}
