package turns

// Event is emitted by a Session to its OnEvent callback.
type Event interface {
	turnsEvent()
}

// ScoreChanged is emitted whenever the score changes, including resets.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) turnsEvent() {}

// GameOver is emitted once per run, at the moment of the terminal collision.
type GameOver struct {
	FinalScore int
}

func (GameOver) turnsEvent() {}

// StateChanged is emitted on every session state transition.
type StateChanged struct {
	From State
	To   State
}

func (StateChanged) turnsEvent() {}
