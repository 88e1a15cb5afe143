package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"partybot/internal/domain"
)

// scriptedConnector returns the scripted error for each attempt, then
// fresh fake sessions once the script is exhausted.
type scriptedConnector struct {
	errs     []error
	attempts int
	times    []time.Time
}

func (c *scriptedConnector) Connect(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	c.times = append(c.times, time.Now())
	i := c.attempts
	c.attempts++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return newFakeSession(), nil
}

func netErr() error {
	return fmt.Errorf("%w: connection refused", domain.ErrNetworkUnavailable)
}

func TestSupervisor_ReconnectsAfterNetworkFailures(t *testing.T) {
	conn := &scriptedConnector{errs: []error{netErr(), netErr(), netErr()}}
	sup := NewSupervisor(SupervisorConfig{
		Connector:      conn,
		InitialBackoff: 20 * time.Millisecond,
		MaxBackoff:     40 * time.Millisecond,
		MaxRetries:     10,
	})

	sess, err := sup.Connect(context.Background())
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	defer sess.Close()

	if conn.attempts != 4 {
		t.Fatalf("expected 4 attempts, got %d", conn.attempts)
	}
	if sup.State() != StateConnected {
		t.Fatalf("expected Connected, got %v", sup.State())
	}

	// Backoff delays are non-decreasing up to the cap: 20ms, 40ms, 40ms.
	gaps := make([]time.Duration, 0, 3)
	for i := 1; i < len(conn.times); i++ {
		gaps = append(gaps, conn.times[i].Sub(conn.times[i-1]))
	}
	if gaps[0] < 20*time.Millisecond {
		t.Fatalf("first backoff too short: %v", gaps[0])
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i] < gaps[i-1] {
			t.Fatalf("backoff decreased: %v", gaps)
		}
	}
}

func TestSupervisor_BackoffResetsAfterSuccess(t *testing.T) {
	conn := &scriptedConnector{errs: []error{netErr(), netErr()}}
	sup := NewSupervisor(SupervisorConfig{
		Connector:      conn,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     8 * time.Millisecond,
	})

	if _, err := sup.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sup.backoff != sup.initialBackoff {
		t.Fatalf("backoff should reset after success, got %v", sup.backoff)
	}
	if sup.retries != 0 {
		t.Fatalf("retry counter should reset, got %d", sup.retries)
	}
}

func TestSupervisor_AuthRejectedIsFatalWithoutRetry(t *testing.T) {
	conn := &scriptedConnector{errs: []error{fmt.Errorf("%w: bad password", domain.ErrAuthRejected)}}
	sup := NewSupervisor(SupervisorConfig{Connector: conn, InitialBackoff: time.Millisecond})

	_, err := sup.Connect(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
	if conn.attempts != 1 {
		t.Fatalf("auth rejection must not be retried, got %d attempts", conn.attempts)
	}
	if sup.State() != StateFatal {
		t.Fatalf("expected Fatal, got %v", sup.State())
	}

	// Fatal is terminal: no further attempts happen.
	if _, err := sup.Connect(context.Background()); !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal from fatal supervisor, got %v", err)
	}
	if conn.attempts != 1 {
		t.Fatalf("fatal supervisor must not reconnect, got %d attempts", conn.attempts)
	}
}

func TestSupervisor_ProtocolMismatchIsFatal(t *testing.T) {
	conn := &scriptedConnector{errs: []error{fmt.Errorf("%w", domain.ErrProtocolMismatch)}}
	sup := NewSupervisor(SupervisorConfig{Connector: conn, InitialBackoff: time.Millisecond})

	if _, err := sup.Connect(context.Background()); !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
	if conn.attempts != 1 {
		t.Fatalf("protocol mismatch must not be retried, got %d attempts", conn.attempts)
	}
}

func TestSupervisor_RetriesExhausted(t *testing.T) {
	conn := &scriptedConnector{errs: []error{netErr(), netErr(), netErr(), netErr(), netErr()}}
	sup := NewSupervisor(SupervisorConfig{
		Connector:      conn,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		MaxRetries:     3,
	})

	_, err := sup.Connect(context.Background())
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal after exhausted retries, got %v", err)
	}
	if conn.attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", conn.attempts)
	}
}

func TestSupervisor_CancelDuringBackoff(t *testing.T) {
	conn := &scriptedConnector{errs: []error{netErr(), netErr()}}
	sup := NewSupervisor(SupervisorConfig{
		Connector:      conn,
		InitialBackoff: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := sup.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sup.State() == StateFatal {
		t.Fatal("cancellation must not mark the supervisor fatal")
	}
}

func TestSupervisor_SessionClosedReturnsToDisconnected(t *testing.T) {
	conn := &scriptedConnector{}
	sup := NewSupervisor(SupervisorConfig{Connector: conn})

	if _, err := sup.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	sup.SessionClosed()
	if sup.State() != StateDisconnected {
		t.Fatalf("expected Disconnected, got %v", sup.State())
	}
}
