package core

import "context"

// Sound names an audio cue the game can request.
type Sound string

// Sound cues used by the game.
const (
	SoundMove        Sound = "move"
	SoundPoint       Sound = "point"
	SoundExplode     Sound = "explode"
	SoundNewBest     Sound = "newBest"
	SoundUIClick     Sound = "uiClick"
	SoundPauseWhoosh Sound = "pauseWhoosh"
)

// AllSounds lists every cue, in a stable order.
var AllSounds = []Sound{
	SoundMove, SoundPoint, SoundExplode, SoundNewBest, SoundUIClick, SoundPauseWhoosh,
}

// Audio plays sound cues. Implementations must not block.
type Audio interface {
	Play(s Sound)
}

// Identity describes the current player.
type Identity interface {
	IsAuthenticated() bool
	CurrentUser() string
}

// ScoreStore reads and records best scores for a player, per game mode.
// Calls may block on I/O and are never made from inside a frame tick.
type ScoreStore interface {
	Best(ctx context.Context, modeID int) (int, error)
	Submit(ctx context.Context, modeID int, score int) error
}

// NopAudio discards every cue.
type NopAudio struct{}

// Play implements Audio.
func (NopAudio) Play(Sound) {}

// Ranked is one leaderboard row.
type Ranked struct {
	Player string
	Score  int
}

// Standing is the player's place on a mode leaderboard.
type Standing struct {
	Top  []Ranked
	Rank int   // 1-based global rank; 0 means unranked
	Err  error // Set when the leaderboard could not be loaded
}
