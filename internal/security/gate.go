// Package security gates group-management commands behind the
// administrator allow-list.
package security

import "log/slog"

// AdminSet is the fixed set of player identities permitted to issue
// group-management commands. Membership is tested by identity equality
// only; there is no pattern or glob matching.
type AdminSet map[string]struct{}

// NewAdminSet builds the allow-list from configured identities.
func NewAdminSet(names []string) AdminSet {
	set := make(AdminSet, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether the identity is on the allow-list.
func (s AdminSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Gate decides whether a sender may invoke administrative commands.
type Gate struct {
	admins AdminSet
	logger *slog.Logger
}

func NewGate(admins []string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{admins: NewAdminSet(admins), logger: logger}
}

// Authorize is a pure membership test. Denials are logged; the caller is
// responsible for telling the sender, so the refusal is never silent.
func (g *Gate) Authorize(sender string) bool {
	if g.admins.Contains(sender) {
		return true
	}
	g.logger.Warn("command denied: sender not an admin", "sender", sender)
	return false
}
