// Package input buffers discrete player commands between the host's event
// handling and the engine's frame.
package input

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/plus3/blockfall/engine"
)

// Queue is a FIFO of engine commands plus a sticky quit flag.
// It satisfies engine.CommandSource.
type Queue struct {
	list *doublylinkedlist.List
	quit bool
}

func NewQueue() *Queue {
	return &Queue{
		list: doublylinkedlist.New(),
	}
}

// Push appends commands in order.
func (q *Queue) Push(cmds ...engine.Command) {
	for _, cmd := range cmds {
		q.list.Add(cmd)
	}
}

// Next pops the oldest command.
func (q *Queue) Next() (engine.Command, bool) {
	v, ok := q.list.Get(0)
	if !ok {
		return 0, false
	}
	q.list.Remove(0)
	return v.(engine.Command), true
}

func (q *Queue) Len() int {
	return q.list.Size()
}

// Clear drops pending commands. The quit flag is kept.
func (q *Queue) Clear() {
	q.list.Clear()
}

// Quit records the terminate signal.
func (q *Queue) Quit() {
	q.quit = true
}

func (q *Queue) Quitting() bool {
	return q.quit
}
