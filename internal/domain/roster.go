package domain

// Role is a member's standing inside the group.
type Role string

const (
	RoleMember Role = "member"
	RoleLeader Role = "leader"
)

// Member is one entry of a roster update.
type Member struct {
	Name string
	Role Role
}

// Roster is the bot's cached view of group membership, keyed by player
// name. It is replaced wholesale on every roster update and read as a
// snapshot; nothing mutates it in place.
type Roster map[string]Role

// NewRoster builds a roster snapshot from a roster-update event.
func NewRoster(members []Member) Roster {
	r := make(Roster, len(members))
	for _, m := range members {
		r[m.Name] = m.Role
	}
	return r
}

// Has reports whether the player is currently in the group.
func (r Roster) Has(name string) bool {
	_, ok := r[name]
	return ok
}
