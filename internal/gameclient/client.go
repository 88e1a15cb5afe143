package gameclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"partybot/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	defaultDialTimeout = 15 * time.Second
	defaultSendTimeout = 10 * time.Second
	loginReadTimeout   = 15 * time.Second
	writeTimeout       = 5 * time.Second
	pingInterval       = 25 * time.Second
	pongWait           = 60 * time.Second
	eventBuffer        = 64
)

// Config configures the websocket connector.
type Config struct {
	URL         string // ws:// or wss:// endpoint of the game server
	DialTimeout time.Duration
	SendTimeout time.Duration
	Logger      *slog.Logger
}

// Connector implements domain.Connector over a websocket transport.
type Connector struct {
	url         string
	dialTimeout time.Duration
	sendTimeout time.Duration
	logger      *slog.Logger
}

func NewConnector(cfg Config) *Connector {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Connector{
		url:         cfg.URL,
		dialTimeout: cfg.DialTimeout,
		sendTimeout: cfg.SendTimeout,
		logger:      cfg.Logger,
	}
}

// Connect dials the server and performs the login handshake. The returned
// session owns the connection; its event channel stays open until the
// connection dies.
func (c *Connector) Connect(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrNetworkUnavailable, c.url, err)
	}

	if err := login(conn, creds); err != nil {
		conn.Close()
		return nil, err
	}

	s := &session{
		conn:        conn,
		logger:      c.logger,
		sendTimeout: c.sendTimeout,
		events:      make(chan domain.InboundEvent, eventBuffer),
		pending:     make(map[uint32]chan frame),
		pingStop:    make(chan struct{}),
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go s.readLoop()
	go s.keepalive()

	c.logger.Info("logged in", "character", creds.Character, "server", c.url)
	return s, nil
}

// login writes the login frame and waits for the server verdict.
func login(conn *websocket.Conn, creds domain.Credentials) error {
	req := frame{
		Type:      frameLogin,
		Username:  creds.Username,
		Password:  creds.Password,
		Character: creds.Character,
		Version:   protocolVersion,
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return fmt.Errorf("%w: send login: %v", domain.ErrNetworkUnavailable, err)
	}

	conn.SetReadDeadline(time.Now().Add(loginReadTimeout))
	var resp frame
	if err := conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("%w: read login response: %v", domain.ErrNetworkUnavailable, err)
	}

	switch resp.Type {
	case frameLoginOK:
		return nil
	case frameLoginErr:
		switch resp.Code {
		case loginErrAuth:
			return fmt.Errorf("%w: %s", domain.ErrAuthRejected, resp.Reason)
		case loginErrVersion:
			return fmt.Errorf("%w: %s", domain.ErrProtocolMismatch, resp.Reason)
		default:
			return fmt.Errorf("%w: login refused: %s", domain.ErrNetworkUnavailable, resp.Reason)
		}
	default:
		return fmt.Errorf("%w: unexpected login response %q", domain.ErrProtocolMismatch, resp.Type)
	}
}

// session is one live connection. The read loop is the only reader; writes
// are serialized through wmu.
type session struct {
	conn        *websocket.Conn
	logger      *slog.Logger
	sendTimeout time.Duration

	events chan domain.InboundEvent

	seq    atomic.Uint32
	closed atomic.Bool

	wmu sync.Mutex // serializes websocket writes

	mu      sync.Mutex // guards pending
	pending map[uint32]chan frame

	pingStop  chan struct{}
	closeOnce sync.Once
}

func (s *session) Events() <-chan domain.InboundEvent {
	return s.events
}

// Send writes the action and blocks until the server acks or rejects it.
// A reject is returned as *domain.RejectedError; a dead connection as
// domain.ErrNotConnected.
func (s *session) Send(ctx context.Context, action domain.OutboundAction) error {
	if s.closed.Load() {
		return domain.ErrNotConnected
	}

	f := actionFrame(action)
	f.Seq = s.seq.Add(1)

	ch := make(chan frame, 1)
	s.mu.Lock()
	s.pending[f.Seq] = ch
	s.mu.Unlock()

	data, err := json.Marshal(f)
	if err != nil {
		s.dropPending(f.Seq)
		return fmt.Errorf("encode action: %w", err)
	}

	s.wmu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err = s.conn.WriteMessage(websocket.TextMessage, data)
	s.wmu.Unlock()
	if err != nil {
		s.dropPending(f.Seq)
		return fmt.Errorf("%w: write: %v", domain.ErrNotConnected, err)
	}

	timer := time.NewTimer(s.sendTimeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return domain.ErrNotConnected
		}
		if resp.Type == frameReject {
			return &domain.RejectedError{Reason: resp.Reason}
		}
		return nil
	case <-ctx.Done():
		s.dropPending(f.Seq)
		return ctx.Err()
	case <-timer.C:
		s.dropPending(f.Seq)
		return fmt.Errorf("%w: no ack within %v", domain.ErrNotConnected, s.sendTimeout)
	}
}

func (s *session) dropPending(seq uint32) {
	s.mu.Lock()
	delete(s.pending, seq)
	s.mu.Unlock()
}

// failPending closes every waiting ack channel so blocked Send calls
// observe the dead connection.
func (s *session) failPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for seq, ch := range s.pending {
		close(ch)
		delete(s.pending, seq)
	}
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.pingStop)
		s.wmu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		s.wmu.Unlock()
		s.conn.Close()
	})
	return nil
}

// keepalive pings the server so half-dead connections are detected by the
// read deadline instead of hanging forever.
func (s *session) keepalive() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.wmu.Lock()
			s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			s.wmu.Unlock()
		case <-s.pingStop:
			return
		}
	}
}
