package auth

import (
	"sync"
	"testing"
	"time"
)

func TestRevoke_and_IsRevoked(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, 0)
	defer store.Close()

	store.Revoke("token-abc-123", time.Now().Add(time.Hour))

	if !store.IsRevoked("token-abc-123", "user-1", time.Now()) {
		t.Error("expected jti to be revoked")
	}
	if store.IsRevoked("unknown-jti", "user-1", time.Now()) {
		t.Error("expected unknown jti to not be revoked")
	}
}

func TestRevoke_EmptyJTIIgnored(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, 0)
	defer store.Close()

	store.Revoke("", time.Now().Add(time.Hour))
	if store.Count() != 0 {
		t.Errorf("expected empty jti to be ignored, count=%d", store.Count())
	}
	if store.IsRevoked("", "user-1", time.Now()) {
		t.Error("expected token without jti to not be revoked")
	}
}

func TestRevokeUser_OnlyEarlierTokens(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, 0)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }
	store.RevokeUser("user-42")

	if !store.IsRevoked("any", "user-42", now.Add(-time.Minute)) {
		t.Error("expected earlier token of removed user to be revoked")
	}
	if store.IsRevoked("any", "user-42", now.Add(time.Minute)) {
		t.Error("expected token issued after removal to be unaffected")
	}
	if store.IsRevoked("any", "user-99", now.Add(-time.Minute)) {
		t.Error("expected other users to be unaffected")
	}
}

func TestCleanup_DropsExpired(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, 0)
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }
	store.Revoke("old", now.Add(-time.Second))
	store.Revoke("fresh", now.Add(time.Hour))
	store.RevokeUser("user-1")

	store.cleanup()
	if store.Count() != 2 {
		t.Fatalf("expected 2 entries after cleanup, got %d", store.Count())
	}

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	store.cleanup()
	if store.Count() != 0 {
		t.Errorf("expected all entries gone, got %d", store.Count())
	}
}

func TestClose_Idempotent(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, time.Minute)
	store.Close()
	store.Close()
}

func TestRevocation_Concurrent(t *testing.T) {
	store := NewTokenRevocationStore(time.Hour, 0)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Revoke(string(rune('a'+i%26))+"-jti", time.Now().Add(time.Hour))
		}(i)
		go func() {
			defer wg.Done()
			store.IsRevoked("a-jti", "user", time.Now())
		}()
	}
	wg.Wait()
}
