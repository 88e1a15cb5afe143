package command

import (
	"strings"

	"partybot/internal/domain"
)

// DefaultPrefix marks a chat line as a bot command.
const DefaultPrefix = "!"

// Parser turns chat messages into structured commands. It never fails:
// anything that does not match the command grammar, including a wrong
// argument count, degrades to CmdUnknown so ordinary chat stays inert.
type Parser struct {
	prefix  string
	aliases map[string]string
}

func NewParser(prefix string, aliases map[string]string) *Parser {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Parser{prefix: prefix, aliases: aliases}
}

// Parse extracts a command candidate from a chat message. Verb matching is
// case-insensitive; targets are taken verbatim.
func (p *Parser) Parse(msg domain.ChatMessage) domain.ParsedCommand {
	unknown := domain.ParsedCommand{Kind: domain.CmdUnknown, Sender: msg.Sender}

	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, p.prefix) {
		return unknown
	}

	fields := strings.Fields(text[len(p.prefix):])
	if len(fields) == 0 {
		return unknown
	}

	verb := strings.ToLower(fields[0])
	if canonical, ok := p.aliases[verb]; ok {
		verb = canonical
	}
	args := fields[1:]

	// Every verb takes exactly one target.
	if len(args) != 1 {
		return unknown
	}

	switch verb {
	case "invite":
		return domain.ParsedCommand{Kind: domain.CmdInvite, Target: args[0], Sender: msg.Sender}
	case "kick":
		return domain.ParsedCommand{Kind: domain.CmdKick, Target: args[0], Sender: msg.Sender}
	case "promote":
		return domain.ParsedCommand{Kind: domain.CmdPromote, Target: args[0], Sender: msg.Sender}
	default:
		return unknown
	}
}
