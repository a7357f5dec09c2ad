package security

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPDirect(t *testing.T) {
	resolver := NewIPResolver()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:54321"
	if got := resolver.ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP = %s, want 203.0.113.7", got)
	}
}

func TestClientIPForwardedFromTrustedProxy(t *testing.T) {
	resolver := NewIPResolver()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:9000"
	r.Header.Set("X-Forwarded-For", "198.51.100.23, 10.0.0.5")
	if got := resolver.ClientIP(r); got != "198.51.100.23" {
		t.Errorf("ClientIP = %s, want first forwarded entry", got)
	}
}

func TestClientIPIgnoresForwardedFromUntrustedPeer(t *testing.T) {
	resolver := NewIPResolver()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:54321"
	r.Header.Set("X-Forwarded-For", "198.51.100.23")
	if got := resolver.ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP = %s, spoofable header must be ignored", got)
	}
}

func TestClientIPRealIPHeader(t *testing.T) {
	resolver := NewIPResolver()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.10:8080"
	r.Header.Set("X-Real-IP", "198.51.100.23")
	if got := resolver.ClientIP(r); got != "198.51.100.23" {
		t.Errorf("ClientIP = %s, want X-Real-IP from trusted proxy", got)
	}
}

func TestClientIPInvalidForwardedValue(t *testing.T) {
	resolver := NewIPResolver()

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:9000"
	r.Header.Set("X-Forwarded-For", "not-an-ip")
	if got := resolver.ClientIP(r); got != "127.0.0.1" {
		t.Errorf("ClientIP = %s, want direct IP when forwarded value is garbage", got)
	}
}
