package gameclient

import "partybot/internal/domain"

// protocolVersion is the chat/party protocol revision this client speaks.
// The server refuses the login when it no longer supports this revision.
const protocolVersion = 2

// Frame type tags used on the wire.
const (
	frameLogin    = "login"
	frameLoginOK  = "login_ok"
	frameLoginErr = "login_err"
	frameChat     = "chat"     // inbound chat line
	frameSay      = "say"      // outbound private message
	frameParty    = "party"    // full roster broadcast
	frameInvite   = "invite"   // outbound party invite
	frameKick     = "kick"     // outbound party removal
	frameSetRole  = "set_role" // outbound role change
	frameAck      = "ack"
	frameReject   = "reject"
)

// Login error codes.
const (
	loginErrAuth    = "auth"
	loginErrVersion = "version"
)

// frame is the single JSON envelope for every message on the socket,
// mirroring the server's schema. Only the fields for its Type are set.
type frame struct {
	Type string `json:"type"`
	Seq  uint32 `json:"seq,omitempty"`

	// login
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Character string `json:"character,omitempty"`
	Version   int    `json:"version,omitempty"`

	// chat / say
	Sender string `json:"sender,omitempty"`
	To     string `json:"to,omitempty"`
	Text   string `json:"text,omitempty"`

	// party / invite / kick / set_role
	Members []wireMember `json:"members,omitempty"`
	Target  string       `json:"target,omitempty"`
	Role    string       `json:"role,omitempty"`

	// login_err / reject
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type wireMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// actionFrame translates an outbound action into its wire form.
func actionFrame(action domain.OutboundAction) frame {
	switch action.Type {
	case domain.ActionInvite:
		return frame{Type: frameInvite, Target: action.Target}
	case domain.ActionKick:
		return frame{Type: frameKick, Target: action.Target}
	case domain.ActionSetRole:
		return frame{Type: frameSetRole, Target: action.Target, Role: string(action.Role)}
	default:
		return frame{Type: frameSay, To: action.To, Text: action.Text}
	}
}

// rosterMembers converts a party frame into domain members.
func rosterMembers(members []wireMember) []domain.Member {
	out := make([]domain.Member, 0, len(members))
	for _, m := range members {
		role := domain.Role(m.Role)
		if role != domain.RoleLeader {
			role = domain.RoleMember
		}
		out = append(out, domain.Member{Name: m.Name, Role: role})
	}
	return out
}
