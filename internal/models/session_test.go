package models

import (
	"testing"
	"time"
)

func TestSessionExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	if (&Session{}).Expired(now) {
		t.Fatalf("session without expiry must not be treated as expired")
	}
	if (&Session{ExpiresAt: now.Add(time.Hour).Unix()}).Expired(now) {
		t.Fatalf("session valid for an hour reported expired")
	}
	if !(&Session{ExpiresAt: now.Add(5 * time.Second).Unix()}).Expired(now) {
		t.Fatalf("session inside the refresh margin should be expired")
	}
	if !(&Session{ExpiresAt: now.Add(-time.Minute).Unix()}).Expired(now) {
		t.Fatalf("past expiry should be expired")
	}
}
