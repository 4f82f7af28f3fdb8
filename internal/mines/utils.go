package mines

import (
	"iter"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// todoCell marks a cell queued for opening; it never escapes Reveal.
const todoCell CellState = -10

type celltodo struct {
	next       []int
	head, tail int
}

func newCellTodo(n int) *celltodo {
	return &celltodo{next: make([]int, n), head: -1, tail: -1}
}

func (std *celltodo) add(i int) {
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = -1
}

// all walks the queue in insertion order, including cells added while
// walking.
func (std *celltodo) all() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := std.head; i >= 0; i = std.next[i] {
			if !yield(i) {
				return
			}
		}
	}
}
