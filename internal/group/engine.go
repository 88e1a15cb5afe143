// Package group decides which outbound actions an authorized command
// translates into, given the current roster snapshot.
package group

import (
	"fmt"
	"log/slog"

	"partybot/internal/domain"
)

// Engine validates commands against the roster and emits outbound
// actions. The roster is a read-only snapshot that may lag server state;
// the engine's decision for the same command and snapshot is
// deterministic. Rejected actions are never retried here; a server-side
// refusal reflects a business rule that an immediate retry cannot fix.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Decide returns the actions for one authorized command, in send order.
// Invalid targets produce a single explanatory reply to the sender;
// mutations are followed by a confirmation reply.
func (e *Engine) Decide(cmd domain.ParsedCommand, roster domain.Roster) []domain.OutboundAction {
	switch cmd.Kind {
	case domain.CmdInvite:
		if roster.Has(cmd.Target) {
			return []domain.OutboundAction{
				domain.Reply(cmd.Sender, fmt.Sprintf("%s is already in the group", cmd.Target)),
			}
		}
		return []domain.OutboundAction{
			domain.Invite(cmd.Target),
			domain.Reply(cmd.Sender, fmt.Sprintf("invited %s", cmd.Target)),
		}

	case domain.CmdKick:
		if !roster.Has(cmd.Target) {
			return []domain.OutboundAction{
				domain.Reply(cmd.Sender, fmt.Sprintf("%s is not in the group", cmd.Target)),
			}
		}
		return []domain.OutboundAction{
			domain.Kick(cmd.Target),
			domain.Reply(cmd.Sender, fmt.Sprintf("kicked %s", cmd.Target)),
		}

	case domain.CmdPromote:
		if !roster.Has(cmd.Target) {
			return []domain.OutboundAction{
				domain.Reply(cmd.Sender, fmt.Sprintf("%s is not in the group", cmd.Target)),
			}
		}
		return []domain.OutboundAction{
			domain.SetRole(cmd.Target, domain.RoleLeader),
			domain.Reply(cmd.Sender, fmt.Sprintf("promoted %s", cmd.Target)),
		}

	default:
		e.logger.Debug("nothing to decide for unknown command", "sender", cmd.Sender)
		return nil
	}
}
