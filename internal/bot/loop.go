// Package bot contains the top-level driver: the reconnection supervisor
// and the event loop that routes chat through parsing, authorization and
// the group engine.
package bot

import (
	"context"
	"errors"
	"log/slog"

	"partybot/internal/command"
	"partybot/internal/domain"
	"partybot/internal/group"
	"partybot/internal/security"
)

// Notifier delivers out-of-band operator notifications. Implementations
// must not block indefinitely.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Config holds the loop's collaborators and tuning.
type Config struct {
	Supervisor *Supervisor
	Parser     *command.Parser
	Gate       *security.Gate
	Engine     *group.Engine
	Audit      domain.AuditLog // optional
	Notifier   Notifier        // optional
	Character  string          // the bot's own character name
	Burst      int
	PerMinute  float64
	Logger     *slog.Logger
}

// Loop is the single consumer of inbound events and the single producer
// of outbound actions. All roster and command processing happens on one
// goroutine, so the roster snapshot needs no locking.
type Loop struct {
	sup       *Supervisor
	parser    *command.Parser
	gate      *security.Gate
	engine    *group.Engine
	audit     domain.AuditLog
	notifier  Notifier
	character string
	limiter   *RateLimiter
	logger    *slog.Logger

	roster domain.Roster
}

func New(cfg Config) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Loop{
		sup:       cfg.Supervisor,
		parser:    cfg.Parser,
		gate:      cfg.Gate,
		engine:    cfg.Engine,
		audit:     cfg.Audit,
		notifier:  cfg.Notifier,
		character: cfg.Character,
		limiter:   NewRateLimiter(cfg.Burst, cfg.PerMinute),
		logger:    cfg.Logger,
		roster:    domain.Roster{},
	}
}

// Run connects and consumes events until the context is cancelled
// (returns nil) or the supervisor turns fatal (returns the fatal error).
func (l *Loop) Run(ctx context.Context) error {
	for {
		sess, err := l.sup.Connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.logger.Error("connection is beyond recovery, stopping", "err", err)
			l.notify(ctx, "partybot stopped: "+err.Error())
			return err
		}

		// Roster knowledge does not survive a reconnect; wait for the
		// server's next roster broadcast.
		l.roster = domain.Roster{}

		connectionDied := l.consume(ctx, sess)
		sess.Close()

		if !connectionDied {
			l.logger.Info("shutdown requested, stopping")
			return nil
		}
		l.sup.SessionClosed()
		l.logger.Info("session ended, reconnecting")
	}
}

// consume drains the session's event stream. It returns true when the
// connection died (reconnect) and false when shutdown was requested.
func (l *Loop) consume(ctx context.Context, sess domain.Session) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sess.Events():
			if !ok {
				return true
			}
			switch ev.Type {
			case domain.EventChat:
				l.handleChat(ctx, sess, ev.Chat)
			case domain.EventRoster:
				// Replace wholesale; never mutate the old snapshot.
				l.roster = domain.NewRoster(ev.Roster)
				l.logger.Debug("roster updated", "members", len(l.roster))
			case domain.EventClosed:
				l.logger.Warn("connection closed", "reason", ev.Reason)
			}
		}
	}
}

func (l *Loop) handleChat(ctx context.Context, sess domain.Session, chat domain.ChatMessage) {
	if chat.Sender == l.character {
		return
	}

	cmd := l.parser.Parse(chat)
	if cmd.Kind == domain.CmdUnknown {
		return
	}
	l.logger.Info("command received", "sender", cmd.Sender, "verb", cmd.Kind.String(), "target", cmd.Target)

	if !l.gate.Authorize(cmd.Sender) {
		l.reply(ctx, sess, cmd.Sender, "you are not an admin")
		l.record(ctx, cmd, domain.ResultDenied, "sender not in admin list")
		return
	}

	if !l.limiter.Allow(cmd.Sender) {
		l.reply(ctx, sess, cmd.Sender, "too many commands, slow down")
		l.record(ctx, cmd, domain.ResultThrottled, "")
		return
	}

	for _, action := range l.engine.Decide(cmd, l.roster) {
		err := sess.Send(ctx, action)
		if err == nil {
			continue
		}

		var rej *domain.RejectedError
		if errors.As(err, &rej) {
			// Business-rule refusal: report it to the admin, skip the
			// rest of this command's actions, never retry.
			l.reply(ctx, sess, cmd.Sender, "server refused: "+rej.Reason)
			l.record(ctx, cmd, domain.ResultRejected, rej.Reason)
			return
		}

		// Transport trouble; the Closed event will follow shortly.
		l.logger.Error("send failed", "err", err)
		return
	}

	l.record(ctx, cmd, domain.ResultAllowed, "")
}

// reply is best-effort: a failed notification must not abort command
// processing.
func (l *Loop) reply(ctx context.Context, sess domain.Session, to, text string) {
	if err := sess.Send(ctx, domain.Reply(to, text)); err != nil {
		l.logger.Warn("reply failed", "to", to, "err", err)
	}
}

func (l *Loop) record(ctx context.Context, cmd domain.ParsedCommand, result, details string) {
	if l.audit == nil {
		return
	}
	err := l.audit.LogCommand(ctx, domain.CommandRecord{
		Sender:  cmd.Sender,
		Verb:    cmd.Kind.String(),
		Target:  cmd.Target,
		Result:  result,
		Details: details,
	})
	if err != nil {
		l.logger.Warn("audit write failed", "err", err)
	}
}

func (l *Loop) notify(ctx context.Context, text string) {
	if l.notifier == nil {
		return
	}
	l.notifier.Notify(ctx, text)
}
