package domain

// ActionType tags an OutboundAction variant.
type ActionType int

const (
	ActionInvite ActionType = iota
	ActionKick
	ActionSetRole
	ActionReply
)

// OutboundAction is one request the bot issues back to the server.
// Exactly the fields for its Type are populated.
type OutboundAction struct {
	Type   ActionType
	Target string // ActionInvite, ActionKick, ActionSetRole
	Role   Role   // ActionSetRole
	To     string // ActionReply
	Text   string // ActionReply
}

// Invite asks the server to send a group invite to the player.
func Invite(target string) OutboundAction {
	return OutboundAction{Type: ActionInvite, Target: target}
}

// Kick removes the player from the group.
func Kick(target string) OutboundAction {
	return OutboundAction{Type: ActionKick, Target: target}
}

// SetRole changes the player's group role.
func SetRole(target string, role Role) OutboundAction {
	return OutboundAction{Type: ActionSetRole, Target: target, Role: role}
}

// Reply sends a private chat message to the player.
func Reply(to, text string) OutboundAction {
	return OutboundAction{Type: ActionReply, To: to, Text: text}
}
