package common

import (
	"testing"
	"time"
)

func TestCacheConfig_GetTTL(t *testing.T) {
	cfg := &CacheConfig{TTL: "2m"}
	if got := cfg.GetTTL(); got != 2*time.Minute {
		t.Errorf("GetTTL() = %v, want %v", got, 2*time.Minute)
	}
}

func TestCacheConfig_GetTTL_DefaultOnUnparseable(t *testing.T) {
	cfg := &CacheConfig{TTL: "not-a-duration"}
	if got := cfg.GetTTL(); got != TTLSnapshot {
		t.Errorf("GetTTL() = %v, want default %v", got, TTLSnapshot)
	}
}

func TestCacheConfig_GetAltTTL(t *testing.T) {
	cfg := &CacheConfig{AltTTL: "30m"}
	if got := cfg.GetAltTTL(); got != 30*time.Minute {
		t.Errorf("GetAltTTL() = %v, want %v", got, 30*time.Minute)
	}
}

func TestCacheConfig_GetAltTTL_DefaultOnEmpty(t *testing.T) {
	cfg := &CacheConfig{}
	if got := cfg.GetAltTTL(); got != TTLAlternate {
		t.Errorf("GetAltTTL() = %v, want default %v", got, TTLAlternate)
	}
}

func TestCacheConfig_AltTTLRoundTrip(t *testing.T) {
	// The app hands the alternate TTL back through the TTL field as a string
	cfg := &CacheConfig{TTL: (&CacheConfig{AltTTL: "15m"}).GetAltTTL().String()}
	if got := cfg.GetTTL(); got != 15*time.Minute {
		t.Errorf("GetTTL() after alt round-trip = %v, want %v", got, 15*time.Minute)
	}
}

func TestIsFresh(t *testing.T) {
	if !IsFresh(time.Now().Add(-time.Minute), TTLSnapshot) {
		t.Error("expected a minute-old timestamp to be fresh within the snapshot TTL")
	}
	if IsFresh(time.Now().Add(-time.Hour), TTLSnapshot) {
		t.Error("expected an hour-old timestamp to be stale")
	}
	if IsFresh(time.Time{}, TTLSnapshot) {
		t.Error("expected the zero time to be stale")
	}
}
