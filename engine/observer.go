package engine

import "github.com/plus3/blockfall/piece"

// Observer is notified of game events as they happen. Callbacks run
// synchronously on the engine's goroutine and must not call back into it.
type Observer interface {
	// GameStarted fires when a new game begins, from New and from Reset.
	GameStarted()
	PieceLocked(p *piece.Piece)
	LinesCleared(rows, score int)
	GameOver(score int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) GameStarted()             {}
func (NopObserver) PieceLocked(*piece.Piece) {}
func (NopObserver) LinesCleared(int, int)    {}
func (NopObserver) GameOver(int)             {}

// Observers fans each event out to every member in order.
type Observers []Observer

func (o Observers) GameStarted() {
	for _, obs := range o {
		obs.GameStarted()
	}
}

func (o Observers) PieceLocked(p *piece.Piece) {
	for _, obs := range o {
		obs.PieceLocked(p)
	}
}

func (o Observers) LinesCleared(rows, score int) {
	for _, obs := range o {
		obs.LinesCleared(rows, score)
	}
}

func (o Observers) GameOver(score int) {
	for _, obs := range o {
		obs.GameOver(score)
	}
}
