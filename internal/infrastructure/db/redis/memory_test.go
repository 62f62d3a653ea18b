package redis

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocationStore(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryRevocationStore()
	s.now = func() time.Time { return now }

	if revoked, _ := s.IsRevoked(context.Background(), "a"); revoked {
		t.Fatalf("unknown token reported as revoked")
	}
	if err := s.Revoke(context.Background(), "a", time.Minute); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if revoked, _ := s.IsRevoked(context.Background(), "a"); !revoked {
		t.Fatalf("expected token to be revoked")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := s.IsRevoked(context.Background(), "a"); revoked {
		t.Fatalf("revocation must lapse after its ttl")
	}
}
