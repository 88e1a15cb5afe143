package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"partybot/internal/domain"
)

const (
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
	defaultMaxRetries     = 10
)

// State is the supervisor's connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFatal:
		return "fatal"
	default:
		return "disconnected"
	}
}

// ErrFatal marks connection failures that will not self-heal: bad
// credentials, protocol incompatibility, or retries exhausted. Once
// returned, the supervisor refuses further attempts.
var ErrFatal = errors.New("fatal connection failure")

// SupervisorConfig configures reconnection behaviour.
type SupervisorConfig struct {
	Connector      domain.Connector
	Credentials    domain.Credentials
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxRetries     int // consecutive failed attempts before Fatal
	Logger         *slog.Logger
}

// Supervisor wraps the connector with capped exponential backoff. It is
// driven by the single bot loop goroutine and holds no locks.
type Supervisor struct {
	connector      domain.Connector
	creds          domain.Credentials
	initialBackoff time.Duration
	maxBackoff     time.Duration
	maxRetries     int
	logger         *slog.Logger

	state   State
	backoff time.Duration
	retries int
}

func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Supervisor{
		connector:      cfg.Connector,
		creds:          cfg.Credentials,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		maxRetries:     cfg.MaxRetries,
		logger:         cfg.Logger,
		state:          StateDisconnected,
		backoff:        cfg.InitialBackoff,
	}
}

// State returns the current connection state.
func (s *Supervisor) State() State {
	return s.state
}

// SessionClosed records that the live session died, moving the supervisor
// back to Disconnected so the next Connect starts a fresh attempt.
func (s *Supervisor) SessionClosed() {
	if s.state == StateConnected {
		s.state = StateDisconnected
	}
}

// Connect attempts to establish a session, retrying transient network
// failures with exponential backoff. Auth and protocol errors, exhausted
// retries, and a prior Fatal state all return an error wrapping ErrFatal.
func (s *Supervisor) Connect(ctx context.Context) (domain.Session, error) {
	if s.state == StateFatal {
		return nil, fmt.Errorf("%w: supervisor already fatal", ErrFatal)
	}
	s.state = StateConnecting

	for {
		sess, err := s.connector.Connect(ctx, s.creds)
		if err == nil {
			s.state = StateConnected
			s.backoff = s.initialBackoff
			s.retries = 0
			return sess, nil
		}

		if errors.Is(err, domain.ErrAuthRejected) || errors.Is(err, domain.ErrProtocolMismatch) {
			s.state = StateFatal
			return nil, fmt.Errorf("%w: %v", ErrFatal, err)
		}

		s.retries++
		if s.retries >= s.maxRetries {
			s.state = StateFatal
			return nil, fmt.Errorf("%w: giving up after %d attempts: %v", ErrFatal, s.retries, err)
		}

		s.logger.Warn("connect failed, backing off",
			"attempt", s.retries,
			"backoff", s.backoff,
			"err", err,
		)

		timer := time.NewTimer(s.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		s.backoff *= 2
		if s.backoff > s.maxBackoff {
			s.backoff = s.maxBackoff
		}
	}
}
