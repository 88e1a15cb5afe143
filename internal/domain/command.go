package domain

// CommandKind tags a ParsedCommand variant.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdInvite
	CmdKick
	CmdPromote
)

func (k CommandKind) String() string {
	switch k {
	case CmdInvite:
		return "invite"
	case CmdKick:
		return "kick"
	case CmdPromote:
		return "promote"
	default:
		return "unknown"
	}
}

// ParsedCommand is the structured form of an admin chat command.
// Sender is carried from the originating chat message for authorization.
type ParsedCommand struct {
	Kind   CommandKind
	Target string
	Sender string
}
