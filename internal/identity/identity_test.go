package identity

import "testing"

func TestNamed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantAuth bool
	}{
		{"regular user", "alice", "alice", true},
		{"trimmed", "  bob ", "bob", true},
		{"blank is guest", "   ", GuestName, false},
		{"reserved guest name", "guest", GuestName, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Named(tt.input)
			if p.CurrentUser() != tt.wantUser {
				t.Errorf("CurrentUser() = %q, want %q", p.CurrentUser(), tt.wantUser)
			}
			if p.IsAuthenticated() != tt.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", p.IsAuthenticated(), tt.wantAuth)
			}
		})
	}
}

func TestForSSH(t *testing.T) {
	if p := ForSSH("carol", true); !p.IsAuthenticated() || p.CurrentUser() != "carol" {
		t.Errorf("key session should be authenticated as carol, got %+v", p)
	}
	if p := ForSSH("carol", false); p.IsAuthenticated() {
		t.Error("session without a public key should play as guest")
	}
}

func TestZeroValueIsGuest(t *testing.T) {
	var p Player
	if p.IsAuthenticated() || p.CurrentUser() != GuestName {
		t.Errorf("zero Player should behave as guest, got %+v", p)
	}
}
