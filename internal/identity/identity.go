// Package identity resolves who is playing: an anonymous guest whose best
// scores stay on this machine, or a named player whose scores go to the
// shared leaderboard.
package identity

import (
	"strings"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

// GuestName is the display name used for unauthenticated players.
const GuestName = "Guest"

// Player is a resolved identity.
type Player struct {
	name          string
	authenticated bool
}

var _ core.Identity = Player{}

// Guest returns the unauthenticated identity.
func Guest() Player {
	return Player{name: GuestName}
}

// Named returns an authenticated identity for the given user name.
// Blank names and the reserved guest name resolve to Guest.
func Named(name string) Player {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, GuestName) {
		return Guest()
	}
	return Player{name: name, authenticated: true}
}

// ForSSH resolves an SSH session user. Only sessions that presented a
// public key count as authenticated; password-less keyboard sessions play
// as guests.
func ForSSH(user string, hasPublicKey bool) Player {
	if !hasPublicKey {
		return Guest()
	}
	return Named(user)
}

// IsAuthenticated implements core.Identity.
func (p Player) IsAuthenticated() bool {
	return p.authenticated
}

// CurrentUser implements core.Identity.
func (p Player) CurrentUser() string {
	if p.name == "" {
		return GuestName
	}
	return p.name
}
