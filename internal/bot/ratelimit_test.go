package bot

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, 60.0)

	for i := 0; i < 3; i++ {
		if !rl.Allow("alice") {
			t.Fatalf("burst command %d should be allowed", i)
		}
	}
	if rl.Allow("alice") {
		t.Fatal("command beyond burst should be throttled")
	}
}

func TestRateLimiter_PerSenderBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 60.0)

	if !rl.Allow("alice") {
		t.Fatal("alice's first command should pass")
	}
	if rl.Allow("alice") {
		t.Fatal("alice should be throttled")
	}
	if !rl.Allow("bob") {
		t.Fatal("bob must not be affected by alice's bucket")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(1, 6000.0) // 100 tokens/sec

	if !rl.Allow("alice") {
		t.Fatal("first command should pass")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("alice") {
		t.Fatal("bucket should have refilled")
	}
}

func TestRateLimiter_DefaultValues(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	if rl.max != defaultCommandBurst {
		t.Fatalf("expected default burst %d, got %v", defaultCommandBurst, rl.max)
	}
	if rl.rate == 0 {
		t.Fatal("rate should not be zero")
	}
}
